package series_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/covidwaw/internal/archive"
	"github.com/MrJamesThe3rd/covidwaw/internal/covid"
	"github.com/MrJamesThe3rd/covidwaw/internal/extract"
	"github.com/MrJamesThe3rd/covidwaw/internal/importer"
	"github.com/MrJamesThe3rd/covidwaw/internal/series"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func bulletin(positive, deaths int) string {
	return fmt.Sprintf("Liczba osób objętych kwarantanną domową na podstawie decyzji inspektora sanitarnego: 100\n"+
		"Łączna liczba osób z wynikiem dodatnim: %d\nLiczba zgonów powiązanych z COVID-19: %d\n", positive, deaths)
}

func csvDoc(positive, deaths int) string {
	return fmt.Sprintf("wojewodztwo;powiat_miasto;liczba_przypadkow;zgony\nmazowieckie;Warszawa;%d.0;%d.0\n", positive, deaths)
}

// fakeDocuments serves documents keyed by ISO day and records every day that
// was opened.
func fakeDocuments(t *testing.T, docs map[string]string) (*series.MockDocuments, *[]string) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := series.NewMockDocuments(ctrl)
	opened := &[]string{}

	m.EXPECT().
		Open(gomock.Any(), gomock.Any()).
		DoAndReturn(func(day time.Time, _ covid.Regime) (io.ReadCloser, error) {
			key := day.Format(covid.DayLayout)
			*opened = append(*opened, key)

			doc, ok := docs[key]
			if !ok {
				return nil, fmt.Errorf("%s: %w", key, archive.ErrNotFound)
			}

			return io.NopCloser(strings.NewReader(doc)), nil
		}).
		AnyTimes()

	return m, opened
}

func build(t *testing.T, docs map[string]string, since, today time.Time) ([]covid.DailyRecord, []string, error) {
	t.Helper()

	m, opened := fakeDocuments(t, docs)
	b := series.NewBuilder(m, importer.NewService("Warszawa"))

	records, err := b.Build(context.Background(), since, today)

	return records, *opened, err
}

func days(records []covid.DailyRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Day.Format(covid.DayLayout)
	}

	return out
}

func TestBuilder_Build_DeltasFromCumulative(t *testing.T) {
	records, _, err := build(t, map[string]string{
		"2020-05-01": bulletin(100, 5),
		"2020-05-02": bulletin(130, 6),
		"2020-05-03": bulletin(150, 6),
	}, date(2020, time.May, 1), date(2020, time.May, 3))
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, []string{"2020-05-02", "2020-05-03"}, days(records))
	assert.Equal(t, 30, records[0].Daily.Positive)
	assert.Equal(t, 1, records[0].Daily.Deaths)
	assert.Equal(t, 20, records[1].Daily.Positive)
	assert.Equal(t, 0, records[1].Daily.Deaths)

	for _, rec := range records {
		assert.False(t, rec.Derived, rec.Day)
	}
}

func TestBuilder_Build_CSVCountersAreDerived(t *testing.T) {
	records, _, err := build(t, map[string]string{
		"2022-07-18": csvDoc(100, 1),
		"2022-07-19": csvDoc(200, 2),
		"2022-07-20": csvDoc(300, 3),
	}, date(2022, time.July, 18), date(2022, time.July, 20))
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, 200, records[0].Daily.Positive)
	assert.Equal(t, 300, records[1].Daily.Positive)

	for _, rec := range records {
		assert.True(t, rec.Derived, rec.Day)

		positive, deaths := rec.Totals()
		assert.Nil(t, positive)
		assert.Nil(t, deaths)
	}
}

func TestBuilder_Build_NegativeDeltaIsKept(t *testing.T) {
	records, _, err := build(t, map[string]string{
		"2020-05-01": bulletin(200, 10),
		"2020-05-02": bulletin(190, 9),
	}, date(2020, time.May, 1), date(2020, time.May, 2))
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, -10, records[0].Daily.Positive)
	assert.Equal(t, -1, records[0].Daily.Deaths)
}

func TestBuilder_Build_AcrossRegimes(t *testing.T) {
	records, opened, err := build(t, map[string]string{
		"2020-11-20": bulletin(900, 40),
		"2020-11-21": bulletin(1000, 50),
		// Present on disk, but the override must win.
		"2020-11-23": csvDoc(1, 1),
		"2020-11-24": csvDoc(500, 3),
	}, date(2020, time.November, 20), date(2020, time.November, 24))
	require.NoError(t, err)

	// 2020-11-22 has no override and is skipped, not zero-filled.
	assert.Equal(t, []string{"2020-11-21", "2020-11-23", "2020-11-24"}, days(records))
	assert.Equal(t, []string{"2020-11-20", "2020-11-21", "2020-11-24"}, opened)

	assert.Equal(t, 100, records[0].Daily.Positive)

	assert.Equal(t, 617, records[1].Daily.Positive)
	assert.Equal(t, 7, records[1].Daily.Deaths)
	assert.Equal(t, 1617, *records[1].Positive)
	assert.Equal(t, 57, *records[1].Deaths)

	assert.Equal(t, 500, records[2].Daily.Positive)
	assert.Equal(t, 3, records[2].Daily.Deaths)
	assert.Equal(t, 2117, *records[2].Positive)

	assert.False(t, records[0].Derived)
	assert.True(t, records[1].Derived)
	assert.True(t, records[2].Derived)
}

func TestBuilder_Build_MissingDocuments(t *testing.T) {
	records, opened, err := build(t, map[string]string{
		"2021-03-01": csvDoc(10, 0),
		"2021-03-03": csvDoc(30, 1),
	}, date(2021, time.March, 1), date(2021, time.March, 4))
	require.NoError(t, err)

	// A missing past day leaves a gap, a missing today is simply absent.
	assert.Equal(t, []string{"2021-03-03"}, days(records))
	assert.Equal(t, 30, records[0].Daily.Positive)
	assert.Equal(t, []string{"2021-03-01", "2021-03-02", "2021-03-03", "2021-03-04"}, opened)
}

func TestBuilder_Build_ExtractionFailureIsFatal(t *testing.T) {
	_, _, err := build(t, map[string]string{
		"2020-05-01": bulletin(100, 5),
		"2020-05-02": "a bulletin in a format nobody has seen before",
		"2020-05-03": bulletin(150, 6),
	}, date(2020, time.May, 1), date(2020, time.May, 3))

	require.ErrorIs(t, err, extract.ErrExhausted)
	assert.Contains(t, err.Error(), "2020-05-02")
}

func TestBuilder_Build_BeforeFirstBulletin(t *testing.T) {
	_, _, err := build(t, nil, date(2020, time.March, 14), date(2020, time.March, 17))
	require.ErrorIs(t, err, covid.ErrBeforeFirstBulletin)
}

func TestBuilder_Build_BoundaryDaysUseOneRegime(t *testing.T) {
	ctrl := gomock.NewController(t)
	docs := series.NewMockDocuments(ctrl)
	imp := series.NewMockImporter(ctrl)

	want := map[string]covid.Regime{
		"2020-12-31": covid.RegimeMinistry,
		"2021-01-01": covid.RegimeArcGIS,
	}

	for key, regime := range want {
		day, err := time.Parse(covid.DayLayout, key)
		require.NoError(t, err)

		docs.EXPECT().Open(day, regime).Return(io.NopCloser(strings.NewReader(key)), nil).Times(1)
		imp.EXPECT().
			Import(regime, day, gomock.Any()).
			Return(&covid.DailyRecord{Day: day, Daily: covid.Deltas{Positive: 1}}, nil).
			Times(1)
	}

	records, err := series.NewBuilder(docs, imp).Build(context.Background(), date(2020, time.December, 31), date(2021, time.January, 1))
	require.NoError(t, err)
	assert.Equal(t, []string{"2021-01-01"}, days(records))
}

func TestBuilder_Build_AdjacentRecordsAreConsistent(t *testing.T) {
	docs := map[string]string{}
	cumulative := []int{10, 25, 24, 60, 60, 95, 130}

	for i, c := range cumulative {
		docs[date(2020, time.June, 1+i).Format(covid.DayLayout)] = bulletin(c, i)
	}

	records, _, err := build(t, docs, date(2020, time.June, 1), date(2020, time.June, 7))
	require.NoError(t, err)
	require.Len(t, records, len(cumulative)-1)

	for i := 1; i < len(records); i++ {
		prev, cur := records[i-1], records[i]
		assert.True(t, cur.Day.After(prev.Day))
		assert.Equal(t, *cur.Positive-*prev.Positive, cur.Daily.Positive)
		assert.Equal(t, *cur.Deaths-*prev.Deaths, cur.Daily.Deaths)
	}
}

func TestBuilder_Build_Empty(t *testing.T) {
	records, _, err := build(t, nil, date(2021, time.March, 1), date(2021, time.March, 2))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name         string
		prev         covid.DailyRecord
		cur          covid.DailyRecord
		wantPositive int
		wantDaily    int
		wantDeaths   int
		wantDerived  bool
	}{
		{
			name:         "cumulative from daily",
			prev:         covid.DailyRecord{Positive: new(1000), Deaths: new(20)},
			cur:          covid.DailyRecord{Daily: covid.Deltas{Positive: 45, Deaths: 2}},
			wantPositive: 1045,
			wantDaily:    45,
			wantDeaths:   22,
			wantDerived:  true,
		},
		{
			name:         "cumulative overrides reported daily",
			prev:         covid.DailyRecord{Positive: new(1000), Deaths: new(20)},
			cur:          covid.DailyRecord{Positive: new(1100), Deaths: new(20), Daily: covid.Deltas{Positive: 7}},
			wantPositive: 1100,
			wantDaily:    100,
			wantDeaths:   20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series.Reconcile(&tt.prev, &tt.cur)
			assert.Equal(t, tt.wantPositive, *tt.cur.Positive)
			assert.Equal(t, tt.wantDaily, tt.cur.Daily.Positive)
			assert.Equal(t, tt.wantDeaths, *tt.cur.Deaths)
			assert.Equal(t, tt.wantDerived, tt.cur.Derived)
		})
	}
}
