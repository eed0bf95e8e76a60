package dashboard

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = []User{
	{ID: "u1", Name: "Priya Sharma", Status: StatusActive, City: "Mumbai", UserType: "Individual", OnboardingDate: "2023-02-01"},
	{ID: "u2", Name: "Amit Patel", Status: StatusInactive, City: "Pune", UserType: "Agency", OnboardingDate: "2023-03-01"},
	{ID: "u3", Name: "Sneha Reddy", Status: StatusActive, City: "Mumbai", UserType: "Individual", OnboardingDate: "2023-04-01"},
	{ID: "u4", Name: "Rahul Gupta", Status: StatusSuspended, City: "Jaipur", UserType: "Sub Agency", OnboardingDate: "2023-05-01"},
	{ID: "u5", Name: "Kavya Rao", Status: StatusActive, City: "Chennai", UserType: "Individual", OnboardingDate: "2023-06-01"},
	{ID: "u6", Name: "Rohan Das", Status: StatusActive, City: "Kolkata", UserType: "Agency", OnboardingDate: "2023-07-01"},
	{ID: "u7", Name: "Isha Bansal", Status: StatusActive, City: "Lucknow", UserType: "Individual", OnboardingDate: "2023-08-01"},
}

type staticSource []User

func (s staticSource) Users(context.Context) ([]User, error) { return s, nil }

func TestComputeStats(t *testing.T) {
	st := ComputeStats(sample)
	assert.Equal(t, 7, st.Total)
	assert.Equal(t, 5, st.Active)
	assert.Equal(t, 1, st.Inactive)
	assert.Equal(t, 1, st.Suspended)

	require.Len(t, st.Types, 3)
	assert.Equal(t, TypeShare{Type: "Individual", Count: 4, Percent: 57.1}, st.Types[0])
	assert.Equal(t, TypeShare{Type: "Agency", Count: 2, Percent: 28.6}, st.Types[1])

	require.Len(t, st.Cities, TopCities)
	assert.Equal(t, CityCount{City: "Mumbai", Count: 2}, st.Cities[0])
	assert.Equal(t, "Chennai", st.Cities[1].City, "ties sort by name")
}

func TestComputeStats_Empty(t *testing.T) {
	st := ComputeStats(nil)
	assert.Zero(t, st.Total)
	assert.Empty(t, st.Types)
	assert.NotNil(t, st.Cities)
}

func TestSearch(t *testing.T) {
	tests := []struct {
		q    string
		want int
	}{
		{"", 7},
		{"mumbai", 2},
		{"  AGENCY ", 3},
		{"suspended", 1},
		{"rao", 1},
		{"nobody", 0},
	}
	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			assert.Len(t, Search(sample, tt.q), tt.want)
		})
	}
}

func TestStore_RefreshAndAdd(t *testing.T) {
	s := NewStore(staticSource(sample[:2]))
	require.NoError(t, s.Refresh(context.Background()))
	s.Add(sample[2])

	assert.Len(t, s.All(), 3)
	assert.Equal(t, 2, s.Stats().Active)
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "users.json")
	raw, err := json.Marshal(sample)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	s := NewStore(FileSource{Path: path})
	require.NoError(t, s.Refresh(context.Background()))
	assert.Equal(t, sample, s.All())

	err = NewStore(FileSource{Path: filepath.Join(dir, "missing.json")}).Refresh(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExport(t *testing.T) {
	out, err := Export(sample[:2], FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(out), "\n  {\n    \"id\": \"u1\"")

	out, err = Export(sample[:2], FormatCSV)
	require.NoError(t, err)
	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "Amit Patel", rows[2][1])

	out, err = Export(nil, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", f.ContentType())
	assert.Equal(t, "users_export_2024-01-02.csv", f.FileName(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestDebouncer_TrailingCallWins(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var (
		mu    sync.Mutex
		calls []int
	)
	for i := 1; i <= 3; i++ {
		i := i
		d.Call(func() {
			mu.Lock()
			calls = append(calls, i)
			mu.Unlock()
		})
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(calls) == 1
	}, time.Second, 5*time.Millisecond)
	time.Sleep(40 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{3}, calls)
}

func TestDebouncer_Stop(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	fired := make(chan struct{}, 2)
	d.Call(func() { fired <- struct{}{} })
	d.Stop()
	d.Call(func() { fired <- struct{}{} })

	select {
	case <-fired:
		t.Fatal("stopped debouncer fired")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLiveSearch_EmitsLastQueryOnClose(t *testing.T) {
	s := NewStore(staticSource(sample))
	require.NoError(t, s.Refresh(context.Background()))

	queries := make(chan string)
	var got []string
	done := make(chan struct{})
	go func() {
		s.LiveSearch(context.Background(), queries, time.Hour, func(q string, users []User) {
			got = append(got, q)
			assert.Len(t, users, 2)
		})
		close(done)
	}()

	queries <- "m"
	queries <- "mu"
	queries <- "mumbai"
	close(queries)
	<-done

	assert.Equal(t, []string{"mumbai"}, got)
}
