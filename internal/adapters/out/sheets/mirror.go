// Package sheets mirrors the order book into a Google spreadsheet for
// staff who live in the spreadsheet rather than in admin tooling. Tabs are
// named by month ("2026-09"); every order is one row, located by its
// six-digit code in the first column.
//
// The mirror is derived state. Writes here never feed back into the store
// of record, and a periodic reconciliation pass deletes rows whose order
// no longer exists.
package sheets

import (
	"context"
	"strings"
	"sync"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"
)

// Column layout of every tab. The order ID lives in the first column so
// row lookup is a single column read.
var headerRow = []any{
	"Order", "Created", "Customer", "Phone", "Address",
	"Items", "Total", "Status", "TTN", "Notes",
}

const (
	statusColumn   = 7
	trackingColumn = 8
	columnCount    = 10

	// firstDataRow is 1-based: row 1 is the header.
	firstDataRow = 2
)

// rowAPI is the narrow slice of the spreadsheet API the mirror needs.
// The production implementation wraps the Google Sheets service; tests
// substitute an in-memory grid.
type rowAPI interface {
	// ListTabs returns the titles of all tabs, in sheet order.
	ListTabs(ctx context.Context) ([]string, error)

	// AddTab creates an empty tab with the given title.
	AddTab(ctx context.Context, title string) error

	// ReadColumn returns the first column of a tab, one value per row,
	// starting with row 1.
	ReadColumn(ctx context.Context, tab string) ([]string, error)

	// WriteRow overwrites the 1-based row of a tab with values.
	WriteRow(ctx context.Context, tab string, row int, values []any) error

	// AppendRow adds values after the last non-empty row of a tab.
	AppendRow(ctx context.Context, tab string, values []any) error

	// WriteCell overwrites a single cell; col is 0-based.
	WriteCell(ctx context.Context, tab string, row, col int, value any) error

	// DeleteRow removes the 1-based row of a tab, shifting rows below up.
	DeleteRow(ctx context.Context, tab string, row int) error
}

// Mirror implements the order mirror over a spreadsheet-shaped API.
//
// Writes to one tab are serialized with a per-tab lock, so two concurrent
// updates cannot interleave their scan and write steps against the same
// tab. Cross-process races are left to the reconciliation backstop.
type Mirror struct {
	api rowAPI

	mu   sync.Mutex
	tabs map[string]*sync.Mutex
}

// NewMirror creates a mirror over the given spreadsheet API.
func NewMirror(api rowAPI) *Mirror {
	return &Mirror{
		api:  api,
		tabs: make(map[string]*sync.Mutex),
	}
}

// MonthTabName returns the tab title for the month of date, e.g. "2026-09".
func MonthTabName(date time.Time) string {
	return date.Format("2006-01")
}

func (m *Mirror) tabLock(title string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.tabs[title]
	if !ok {
		lock = &sync.Mutex{}
		m.tabs[title] = lock
	}
	return lock
}

// EnsureMonthTab creates the month tab with its header row when it does
// not exist yet. Safe to call for every order.
func (m *Mirror) EnsureMonthTab(ctx context.Context, date time.Time) error {
	title := MonthTabName(date)

	lock := m.tabLock(title)
	lock.Lock()
	defer lock.Unlock()

	titles, err := m.api.ListTabs(ctx)
	if err != nil {
		return err
	}
	for _, t := range titles {
		if t == title {
			return nil
		}
	}

	if err = m.api.AddTab(ctx, title); err != nil {
		return err
	}
	return m.api.WriteRow(ctx, title, 1, headerRow)
}

// Upsert writes the order's full row, updating in place when the order
// already has a row in any tab and appending to its month tab otherwise.
func (m *Mirror) Upsert(ctx context.Context, o *order.Order) error {
	id := o.ID()
	values := orderRow(o)

	tab, row, err := m.locate(ctx, id.String())
	if err != nil {
		return err
	}
	if tab != "" {
		lock := m.tabLock(tab)
		lock.Lock()
		defer lock.Unlock()
		return m.api.WriteRow(ctx, tab, row, values)
	}

	title := MonthTabName(o.CreatedAt())
	lock := m.tabLock(title)
	lock.Lock()
	defer lock.Unlock()
	return m.api.AppendRow(ctx, title, values)
}

// UpdateStatus rewrites the status cell of the order's row.
func (m *Mirror) UpdateStatus(ctx context.Context, id kernel.OrderID, status order.Status) error {
	return m.updateCell(ctx, id, statusColumn, status.Label())
}

// UpdateTracking rewrites the tracking cell of the order's row.
func (m *Mirror) UpdateTracking(ctx context.Context, id kernel.OrderID, tn kernel.TrackingNumber) error {
	return m.updateCell(ctx, id, trackingColumn, tn.String())
}

func (m *Mirror) updateCell(ctx context.Context, id kernel.OrderID, col int, value any) error {
	tab, row, err := m.locate(ctx, id.String())
	if err != nil {
		return err
	}
	if tab == "" {
		return errs.NewObjectNotFoundError("mirrorRow", id.String())
	}

	lock := m.tabLock(tab)
	lock.Lock()
	defer lock.Unlock()
	return m.api.WriteCell(ctx, tab, row, col, value)
}

// Reconcile deletes every row whose order ID is absent from knownIDs.
// Rows are deleted from the bottom of each tab upward: deleting a row
// shifts all rows below it, so ascending deletion would invalidate the
// indices collected during the scan.
func (m *Mirror) Reconcile(ctx context.Context, knownIDs map[string]struct{}) error {
	titles, err := m.api.ListTabs(ctx)
	if err != nil {
		return err
	}

	for _, title := range titles {
		if err = m.reconcileTab(ctx, title, knownIDs); err != nil {
			return err
		}
	}
	return nil
}

func (m *Mirror) reconcileTab(ctx context.Context, title string, knownIDs map[string]struct{}) error {
	lock := m.tabLock(title)
	lock.Lock()
	defer lock.Unlock()

	column, err := m.api.ReadColumn(ctx, title)
	if err != nil {
		return err
	}

	orphans := make([]int, 0)
	for i, value := range column {
		row := i + 1
		if row < firstDataRow {
			continue
		}
		id := strings.TrimSpace(value)
		if id == "" {
			continue
		}
		if _, ok := knownIDs[id]; !ok {
			orphans = append(orphans, row)
		}
	}

	for i := len(orphans) - 1; i >= 0; i-- {
		if err = m.api.DeleteRow(ctx, title, orphans[i]); err != nil {
			return err
		}
	}
	return nil
}

// locate finds the order's row by scanning the first column of every tab.
// Returns ("", 0, nil) when no tab has the ID.
func (m *Mirror) locate(ctx context.Context, id string) (string, int, error) {
	titles, err := m.api.ListTabs(ctx)
	if err != nil {
		return "", 0, err
	}

	for _, title := range titles {
		lock := m.tabLock(title)
		lock.Lock()
		column, readErr := m.api.ReadColumn(ctx, title)
		lock.Unlock()
		if readErr != nil {
			return "", 0, readErr
		}

		for i, value := range column {
			if strings.TrimSpace(value) == id {
				return title, i + 1, nil
			}
		}
	}
	return "", 0, nil
}

func orderRow(o *order.Order) []any {
	id := o.ID()

	items := make([]string, 0, len(o.Lines()))
	for _, line := range o.Lines() {
		items = append(items, line.String())
	}

	tracking := ""
	if tn := o.Tracking(); tn != nil {
		tracking = tn.String()
	}

	return []any{
		id.String(),
		o.CreatedAt().Format("2006-01-02 15:04"),
		o.CustomerName(),
		o.CustomerPhone(),
		o.Address().String(),
		strings.Join(items, ", "),
		o.Total().String(),
		o.Status().Label(),
		tracking,
		o.Notes(),
	}
}
