package operations

import (
	"sort"
	"sync"
	"time"

	"github.com/go-gota/gota/dataframe"

	"housingcli/internal/dataprocessing"
	"housingcli/pkg/contracts/domain"
)

// OperationStatusValue represents the overall operation status enum
type OperationStatusValue string

const (
	OperationStatusPending   OperationStatusValue = "pending"
	OperationStatusRunning   OperationStatusValue = "running"
	OperationStatusCompleted OperationStatusValue = "completed"
	OperationStatusFailed    OperationStatusValue = "failed"
	OperationStatusCancelled OperationStatusValue = "cancelled"
)

// Results are the aggregates computed from the cleaned table
type Results struct {
	SidePpsf        domain.RegionSeries
	SideChange      domain.RegionSeries
	CommunityPpsf   domain.RegionSeries
	CommunityChange domain.RegionSeries
	Season          domain.SeasonalFrame
	SaleShares      []float64
	UnitsSold       domain.Series
	BasePpsf        domain.Series
}

// OperationState is the state of one report run. Each step reads what the
// previous steps left and adds its own output.
type OperationState struct {
	mu sync.RWMutex

	ID        string
	Status    OperationStatusValue
	StartTime time.Time
	EndTime   *time.Time
	Error     error

	Steps map[string]*StepState
	order []string

	// Pipeline data
	Raw     dataframe.DataFrame
	Rates   []domain.RatePoint
	Table   *dataprocessing.Table
	Results *Results

	charts []string
	files  []string
}

// NewOperationState creates a new operation state
func NewOperationState(id string) *OperationState {
	return &OperationState{
		ID:        id,
		Status:    OperationStatusPending,
		StartTime: time.Now(),
		Steps:     make(map[string]*StepState),
	}
}

// Start marks the operation as running
func (p *OperationState) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Status = OperationStatusRunning
	p.StartTime = time.Now()
}

// Complete marks the operation as completed
func (p *OperationState) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusCompleted
}

// Fail marks the operation as failed
func (p *OperationState) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusFailed
	p.Error = err
}

// Cancel marks the operation as cancelled
func (p *OperationState) Cancel(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusCancelled
	p.Error = err
}

// GetStatus returns the current status
func (p *OperationState) GetStatus() OperationStatusValue {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Status
}

// Duration returns the run duration, or the elapsed time while running
func (p *OperationState) Duration() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.EndTime == nil {
		return time.Since(p.StartTime)
	}
	return p.EndTime.Sub(p.StartTime)
}

// SetStage registers a step state, keeping registration order
func (p *OperationState) SetStage(id string, state *StepState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.Steps[id]; !ok {
		p.order = append(p.order, id)
	}
	p.Steps[id] = state
}

// GetStage returns the state of a step, nil when unknown
func (p *OperationState) GetStage(id string) *StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Steps[id]
}

// StageOrder returns the step IDs in registration order
func (p *OperationState) StageOrder() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]string(nil), p.order...)
}

// AddChart records a written chart. Safe for concurrent use.
func (p *OperationState) AddChart(dest string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.charts = append(p.charts, dest)
}

// Charts returns the written charts sorted by name
func (p *OperationState) Charts() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := append([]string(nil), p.charts...)
	sort.Strings(out)
	return out
}

// AddFile records an exported file
func (p *OperationState) AddFile(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.files = append(p.files, path)
}

// Files returns the exported files in write order
func (p *OperationState) Files() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]string(nil), p.files...)
}
