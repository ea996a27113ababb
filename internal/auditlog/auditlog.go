package auditlog

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/schmidb/AI-crypto-bot-sub000/internal/types"
)

// DecisionEntry is one asset's outcome for one cycle.
type DecisionEntry struct {
	Time          string  `json:"time"`
	AssetID       string  `json:"asset_id"`
	Stage         string  `json:"stage"`
	Regime        string  `json:"regime,omitempty"`
	Action        string  `json:"action"`
	Confidence    float64 `json:"confidence"`
	Source        string  `json:"source,omitempty"`
	Reason        string  `json:"reason,omitempty"`
	SkipReason    string  `json:"skip_reason,omitempty"`
	Allocated     float64 `json:"allocated,omitempty"`
	DegradedInput bool    `json:"degraded_input,omitempty"`
}

// ExecutionEntry records a gateway outcome fed back into the core.
type ExecutionEntry struct {
	Time    string  `json:"time"`
	AssetID string  `json:"asset_id"`
	Action  string  `json:"action"`
	Amount  float64 `json:"amount"`
	Outcome string  `json:"outcome"`
}

// Journal is the append-only JSONL audit trail. The file is rotated and
// compressed by lumberjack; cycle-scoped Decisions live nowhere else once a
// cycle completes.
type Journal struct {
	mu  sync.Mutex
	out *lumberjack.Logger
}

// Options tune journal rotation.
type Options struct {
	Path          string
	MaxSizeMB     int
	RetentionDays int
}

func Open(opts Options) *Journal {
	if opts.Path == "" {
		opts.Path = "logs/audit.jsonl"
	}
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = 50
	}
	if v := os.Getenv("TRADER_LOG_RETENTION_DAYS"); v != "" && opts.RetentionDays == 0 {
		fmt.Sscanf(v, "%d", &opts.RetentionDays)
	}
	return &Journal{
		out: &lumberjack.Logger{
			Filename: opts.Path,
			MaxSize:  opts.MaxSizeMB,
			MaxAge:   opts.RetentionDays,
			Compress: true,
		},
	}
}

// AppendCycle writes one entry per asset audit, ordered by the caller.
func (j *Journal) AppendCycle(now time.Time, audits []*types.AssetAudit) error {
	for _, a := range audits {
		e := DecisionEntry{
			Time:          now.UTC().Format("2006-01-02 15:04:05"),
			AssetID:       a.AssetID,
			Stage:         string(a.Stage),
			Regime:        string(a.Regime),
			Action:        string(a.Decision.Action),
			Confidence:    a.Decision.Confidence,
			Source:        a.Decision.SourceStrategy,
			Reason:        a.Decision.Reason,
			SkipReason:    a.SkipReason,
			Allocated:     a.Allocated,
			DegradedInput: a.DegradedInput,
		}
		if err := j.append(e); err != nil {
			return err
		}
	}
	return nil
}

// AppendExecution records a fill or rejection reported by the gateway.
func (j *Journal) AppendExecution(now time.Time, alloc types.CapitalAllocation, outcome types.ExecutionOutcome) error {
	return j.append(ExecutionEntry{
		Time:    now.UTC().Format("2006-01-02 15:04:05"),
		AssetID: alloc.AssetID,
		Action:  string(alloc.Action),
		Amount:  alloc.Amount,
		Outcome: string(outcome),
	})
}

func (j *Journal) append(e any) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(j.out, string(b))
	return err
}

func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.out.Close()
}
