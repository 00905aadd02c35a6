package scraper

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rosterscraper/pkg/config"
	"rosterscraper/pkg/errors"
	"rosterscraper/pkg/roster"
)

const noCoursePage = `<html><body>Class information not available</body></html>`
const loginPage = `<html><body>Please log in to continue</body></html>`

func coursePage(cells ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><table>`)
	for _, cell := range cells {
		cellHTML := strings.ReplaceAll(cell, "\n", "<br>")
		fmt.Fprintf(&b, `<tr><td data-th="Instructor">%s</td></tr>`, cellHTML)
	}
	b.WriteString(`</table></body></html>`)
	return b.String()
}

// fakeFetcher serves canned pages per identifier and records the
// fetch order.
type fakeFetcher struct {
	pages   map[int]string
	errs    map[int]error
	fetched []int
}

func (f *fakeFetcher) Fetch(_ context.Context, course int) (string, error) {
	f.fetched = append(f.fetched, course)
	if err, ok := f.errs[course]; ok {
		return "", err
	}
	if page, ok := f.pages[course]; ok {
		return page, nil
	}
	return noCoursePage, nil
}

// memStore keeps checkpoints in memory, snapshotting every save so
// tests can check growth across checkpoints.
type memStore struct {
	loaded    *roster.Set
	saveErr   error
	saves     int
	snapshots [][]roster.Name
}

func (m *memStore) Load() (*roster.Set, error) {
	if m.loaded == nil {
		return roster.NewSet(), nil
	}
	return m.loaded, nil
}

func (m *memStore) Save(set *roster.Set) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.snapshots = append(m.snapshots, set.Sorted())
	return nil
}

func testConfig(start, end int) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Scrape.Start = start
	cfg.Scrape.End = end
	cfg.Scrape.Delay = 0
	cfg.Scrape.CheckpointEvery = 1000
	return cfg
}

func TestRangeCoverage(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int]string{
		3: coursePage("Doe, Jane"),
		4: coursePage("Doe, Jane", "Lee, Sam"),
	}}
	store := &memStore{}

	state, err := New(testConfig(0, 5), fetcher, store).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, state.Scanned)
	assert.Equal(t, 2, state.Found)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, fetcher.fetched)

	final := store.snapshots[len(store.snapshots)-1]
	assert.Equal(t, []roster.Name{
		{First: "Jane", Last: "Doe"},
		{First: "Sam", Last: "Lee"},
	}, final)
}

func TestSentinelSkip(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int]string{
		0: noCoursePage,
		1: noCoursePage,
	}}
	store := &memStore{}

	state, err := New(testConfig(0, 2), fetcher, store).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, state.Scanned)
	assert.Equal(t, 0, state.Found)
}

func TestFetchErrorIsSkippedNotFatal(t *testing.T) {
	fetcher := &fakeFetcher{
		pages: map[int]string{2: coursePage("Doe, Jane")},
		errs:  map[int]error{1: fmt.Errorf("navigation timed out")},
	}
	store := &memStore{}

	state, err := New(testConfig(0, 3), fetcher, store).Run(context.Background())
	require.NoError(t, err)

	// The failed identifier still counts as processed.
	assert.Equal(t, 3, state.Scanned)
	assert.Equal(t, 1, state.Found)
}

func TestFatalSessionLoss(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int]string{
		0: coursePage("Doe, Jane"),
		2: loginPage,
		3: coursePage("Lee, Sam"),
	}}
	store := &memStore{}

	_, err := New(testConfig(0, 5), fetcher, store).Run(context.Background())
	require.Error(t, err)

	var serr *errors.Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, errors.TypeSessionExpired, serr.Type)
	assert.True(t, errors.IsFatal(serr.Type))

	// Exactly one checkpoint write after the sentinel, then no
	// further fetches.
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, []int{0, 1, 2}, fetcher.fetched)
}

func TestCheckpointCadence(t *testing.T) {
	fetcher := &fakeFetcher{}
	store := &memStore{}

	cfg := testConfig(0, 5)
	cfg.Scrape.CheckpointEvery = 2

	_, err := New(cfg, fetcher, store).Run(context.Background())
	require.NoError(t, err)

	// Saves after identifiers 2 and 4, plus the final persist.
	assert.Equal(t, 3, store.saves)
}

func TestMonotonicCheckpointGrowth(t *testing.T) {
	pages := make(map[int]string)
	for i := 0; i < 6; i++ {
		pages[i] = coursePage(fmt.Sprintf("Instructor%d, Test", i))
	}
	fetcher := &fakeFetcher{pages: pages}
	store := &memStore{}

	cfg := testConfig(0, 6)
	cfg.Scrape.Mode = config.ModeAppend
	cfg.Scrape.CheckpointEvery = 2

	_, err := New(cfg, fetcher, store).Run(context.Background())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(store.snapshots), 2)

	// Every checkpoint contains everything from the one before it.
	for i := 1; i < len(store.snapshots); i++ {
		prev, cur := store.snapshots[i-1], store.snapshots[i]
		curSet := make(map[roster.Name]bool, len(cur))
		for _, n := range cur {
			curSet[n] = true
		}
		for _, n := range prev {
			assert.True(t, curSet[n], "checkpoint %d lost %v", i, n)
		}
	}
}

func TestAppendModeLoadsExistingCheckpoint(t *testing.T) {
	existing := roster.NewSet()
	existing.Add(roster.Name{First: "Old", Last: "Hand"})

	fetcher := &fakeFetcher{pages: map[int]string{0: coursePage("Doe, Jane")}}
	store := &memStore{loaded: existing}

	cfg := testConfig(0, 1)
	cfg.Scrape.Mode = config.ModeAppend

	state, err := New(cfg, fetcher, store).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, state.Found)
	final := store.snapshots[len(store.snapshots)-1]
	assert.Contains(t, final, roster.Name{First: "Old", Last: "Hand"})
	assert.Contains(t, final, roster.Name{First: "Jane", Last: "Doe"})
}

func TestOverwriteModeIgnoresExistingCheckpoint(t *testing.T) {
	existing := roster.NewSet()
	existing.Add(roster.Name{First: "Old", Last: "Hand"})

	fetcher := &fakeFetcher{pages: map[int]string{0: coursePage("Doe, Jane")}}
	store := &memStore{loaded: existing}

	state, err := New(testConfig(0, 1), fetcher, store).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, state.Found)
	final := store.snapshots[len(store.snapshots)-1]
	assert.NotContains(t, final, roster.Name{First: "Old", Last: "Hand"})
}

func TestPersistenceFailureIsFatal(t *testing.T) {
	fetcher := &fakeFetcher{}
	store := &memStore{saveErr: fmt.Errorf("disk full")}

	cfg := testConfig(0, 4)
	cfg.Scrape.CheckpointEvery = 2

	_, err := New(cfg, fetcher, store).Run(context.Background())
	require.Error(t, err)

	var serr *errors.Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, errors.TypePersistence, serr.Type)

	// The loop aborts at the first failed cadence write; the rest of
	// the range is never fetched.
	assert.Equal(t, []int{0, 1}, fetcher.fetched)
}

func TestCancelledRunPersistsAndReturnsCleanly(t *testing.T) {
	fetcher := &fakeFetcher{}
	store := &memStore{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	state, err := New(testConfig(0, 100), fetcher, store).Run(ctx)
	require.NoError(t, err)

	assert.True(t, state.Interrupted)
	assert.Equal(t, 0, state.Scanned)
	assert.Equal(t, 1, store.saves)
	assert.Empty(t, fetcher.fetched)
}

func TestStaffAndTBANotCollected(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int]string{
		0: coursePage("Staff"),
		1: coursePage("TBA\nDoe, Jane"),
	}}
	store := &memStore{}

	state, err := New(testConfig(0, 2), fetcher, store).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, state.Found)
	final := store.snapshots[len(store.snapshots)-1]
	assert.Equal(t, []roster.Name{{First: "Jane", Last: "Doe"}}, final)
}
