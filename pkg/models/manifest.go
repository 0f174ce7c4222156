package models

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Converter is the contract for turning a statement file into canonical
// transactions. Implemented by the service layer; kept as an interface here so
// manifests stay decoupled from parsing.
type Converter interface {
	ConvertBytes(data []byte, filename string) ([]Transaction, error)
}

// Manifest is the YAML description of the statements to plan or apply.
type Manifest struct {
	YNAB       LedgerConfig `yaml:"ynab"`
	Statements []Statement  `yaml:"statements"`
}

// LedgerConfig holds the remote ledger coordinates shared by all statements.
type LedgerConfig struct {
	BudgetID string `yaml:"budget_id"`
	TokenEnv string `yaml:"token_env"`
}

// Statement is a single statement file to be processed against one account.
type Statement struct {
	FilePath  string `yaml:"file"`
	AccountID string `yaml:"account_id"`
	// Previous optionally points at an earlier export used to drop already
	// written transactions before any remote work.
	Previous string `yaml:"previous"`
}

// File returns the absolute path to the statement file, expanding ~.
func (s *Statement) File() (string, error) {
	if strings.HasPrefix(s.FilePath, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, s.FilePath[2:]), nil
	}
	return s.FilePath, nil
}

// Transactions reads the statement file and converts it to canonical records.
func (s *Statement) Transactions(c Converter) ([]Transaction, error) {
	filePath, err := s.File()
	if err != nil {
		return nil, err
	}

	fileBytes, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read statement file %s: %w", filePath, err)
	}

	transactions, err := c.ConvertBytes(fileBytes, filepath.Base(filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to process statement file %s: %w", filePath, err)
	}

	return transactions, nil
}

// FromFile reads a manifest from a YAML file.
func FromFile(filePath string) (*Manifest, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, err
	}
	if len(manifest.Statements) == 0 {
		return nil, fmt.Errorf("manifest has no statements")
	}

	return &manifest, nil
}
