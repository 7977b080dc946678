package server

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/walletspy/walletspy/internal/feed"
)

// FileFeedSource reads activity dumps from a directory: one
// <address>.json file per wallet. Development stand-in for the real
// blockchain-data collaborator.
type FileFeedSource struct {
	Dir string
}

// feedDump is the on-disk shape of one wallet's activity.
type feedDump struct {
	Activity []feed.RawActivityRecord `json:"activity"`
	Holdings []feed.RawHolding        `json:"holdings"`
}

// Fetch implements FeedSource. A missing file is an empty wallet, not an
// error: the analyzer's contract is a zero-activity report.
func (s *FileFeedSource) Fetch(_ context.Context, address string) ([]feed.RawActivityRecord, []feed.RawHolding, error) {
	path := filepath.Join(s.Dir, address+".json")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read feed dump: %w", err)
	}
	var dump feedDump
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, nil, fmt.Errorf("parse feed dump %s: %w", path, err)
	}
	return dump.Activity, dump.Holdings, nil
}
