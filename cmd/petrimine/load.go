package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/petrimine/petrimine/eventlog"
)

// Log-loading flags shared by the inspection and mining commands.
var (
	formatFlag   string
	caseColumn   string
	activityCol  string
	timestampCol string
	taskField    string
)

// loadLog reads an event log, detecting the format from the file
// extension unless --format overrides it.
func loadLog(path string) (*eventlog.EventLog, error) {
	format := formatFlag
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(path), ".")
	}

	switch strings.ToLower(format) {
	case "json":
		cfg := eventlog.DefaultJSONConfig()
		if taskField != "" {
			cfg.TaskField = taskField
		}
		return eventlog.ParseJSON(path, cfg)
	case "jsonl":
		cfg := eventlog.DefaultJSONLConfig()
		if caseColumn != "" {
			cfg.CaseIDField = caseColumn
		}
		if activityCol != "" {
			cfg.ActivityField = activityCol
		}
		if timestampCol != "" {
			cfg.TimestampField = timestampCol
		}
		return eventlog.ParseJSONL(path, cfg)
	case "csv":
		cfg := eventlog.DefaultCSVConfig()
		if caseColumn != "" {
			cfg.CaseIDColumn = caseColumn
		}
		if activityCol != "" {
			cfg.ActivityColumn = activityCol
		}
		if timestampCol != "" {
			cfg.TimestampColumn = timestampCol
		}
		return eventlog.ParseCSV(path, cfg)
	case "xes":
		return eventlog.ParseXES(path)
	default:
		return nil, fmt.Errorf("cannot detect log format of %q; use --format json|jsonl|csv|xes", path)
	}
}
