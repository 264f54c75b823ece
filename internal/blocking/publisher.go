package blocking

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FilePublisher writes the active rule set to a JSON file consumed by
// the browser-side collaborator. Writing the whole document is the
// remove-all-then-add contract: the previous set is gone the moment
// the rename lands.
type FilePublisher struct {
	mu   sync.Mutex
	path string
}

func NewFilePublisher(path string) *FilePublisher {
	return &FilePublisher{path: path}
}

type ruleDocument struct {
	Rules []Rule `json:"rules"`
}

func (p *FilePublisher) Replace(rules []Rule) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if rules == nil {
		rules = []Rule{}
	}

	data, err := json.MarshalIndent(ruleDocument{Rules: rules}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode rules: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("create rules dir: %w", err)
	}

	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write rules file: %w", err)
	}
	if err := os.Rename(tmp, p.path); err != nil {
		return fmt.Errorf("replace rules file: %w", err)
	}
	return nil
}
