package infrastructure_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/JaimeStill/covenant/internal/config"
	"github.com/JaimeStill/covenant/internal/infrastructure"
	"github.com/JaimeStill/covenant/pkg/database"
	"github.com/JaimeStill/covenant/pkg/risk"
	"github.com/JaimeStill/covenant/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func validConfig() *config.Config {
	return &config.Config{
		Logging: config.LoggingConfig{Level: "error", Format: "text"},
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "covenant",
			User:            "covenant",
			Password:        "covenant",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		Storage: storage.Config{
			ContainerName:    "contracts",
			ConnectionString: azuriteConnString,
			KeyPrefix:        "documents",
		},
		Risk:    risk.DefaultConfig(),
		Version: "0.1.0",
	}
}

func TestNew(t *testing.T) {
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer infra.Database.Connection().Close()

	if infra.Lifecycle == nil {
		t.Error("Lifecycle is nil")
	}
	if infra.Logger == nil {
		t.Error("Logger is nil")
	}
	if infra.Database == nil {
		t.Error("Database is nil")
	}
	if infra.Storage == nil {
		t.Error("Storage is nil")
	}
	if infra.Classifier == nil {
		t.Fatal("Classifier is nil")
	}
	if infra.Classifier.Lexicon().Len() == 0 {
		t.Error("Classifier lexicon is empty")
	}
}

func TestNewClassifierUsesRiskConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Risk.KeywordThreshold = 5

	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer infra.Database.Connection().Close()

	if got := infra.Classifier.Config().KeywordThreshold; got != 5 {
		t.Errorf("KeywordThreshold = %d, want 5", got)
	}
}

func TestNewCustomLexicon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.toml")
	content := "keywords = [\"escrow\", \"lien\"]\n\n[categories]\nescrow = \"Payment\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write lexicon: %v", err)
	}

	cfg := validConfig()
	cfg.Risk.LexiconPath = path

	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer infra.Database.Connection().Close()

	if got := infra.Classifier.Lexicon().Len(); got != 2 {
		t.Errorf("lexicon length = %d, want 2", got)
	}
}

func TestNewMissingLexicon(t *testing.T) {
	cfg := validConfig()
	cfg.Risk.LexiconPath = filepath.Join(t.TempDir(), "missing.toml")

	if _, err := infrastructure.New(cfg); err == nil {
		t.Fatal("expected error for missing lexicon file")
	}
}

func TestNewInvalidStorageConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.ConnectionString = "not-a-connection-string"

	if _, err := infrastructure.New(cfg); err == nil {
		t.Fatal("expected error for invalid storage connection string")
	}
}
