package dates

import (
	"testing"
	"time"
)

func TestDaysRemainingAt(t *testing.T) {
	now := time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC)

	cases := []struct {
		name string
		end  time.Time
		want int
	}{
		{
			name: "end of today counts as zero",
			end:  EndOfDay(2025, 6, 10, time.UTC),
			want: 0,
		},
		{
			name: "midnight tomorrow counts as one",
			end:  time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
			want: 1,
		},
		{
			name: "end of tomorrow counts as one",
			end:  EndOfDay(2025, 6, 11, time.UTC),
			want: 1,
		},
		{
			name: "a week out",
			end:  EndOfDay(2025, 6, 17, time.UTC),
			want: 7,
		},
		{
			name: "yesterday goes negative",
			end:  EndOfDay(2025, 6, 9, time.UTC),
			want: -1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DaysRemainingAt(tc.end, now); got != tc.want {
				t.Fatalf("DaysRemainingAt(%v, %v) = %d, want %d", tc.end, now, got, tc.want)
			}
		})
	}
}

func TestDaysRemainingIgnoresTimeOfDay(t *testing.T) {
	end := EndOfDay(2025, 6, 10, time.UTC)
	early := time.Date(2025, 6, 10, 0, 0, 1, 0, time.UTC)
	late := time.Date(2025, 6, 10, 23, 59, 0, 0, time.UTC)

	if got := DaysRemainingAt(end, early); got != 0 {
		t.Fatalf("early = %d, want 0", got)
	}
	if got := DaysRemainingAt(end, late); got != 0 {
		t.Fatalf("late = %d, want 0", got)
	}
}

func TestIsExpiredAtComparesInstants(t *testing.T) {
	end := EndOfDay(2025, 6, 10, time.UTC)

	justBefore := end.Add(-time.Millisecond)
	if IsExpiredAt(end, justBefore) {
		t.Fatal("trial should not be expired before its end instant")
	}
	if IsExpiredAt(end, end) {
		t.Fatal("trial should not be expired at its exact end instant")
	}
	midnight := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
	if !IsExpiredAt(end, midnight) {
		t.Fatal("trial should be expired after midnight")
	}
}

func TestGranularityAsymmetryOnFinalDay(t *testing.T) {
	// shortly after midnight on the final day the instant comparison still
	// says live while day arithmetic already says 0; both are correct
	end := EndOfDay(2025, 6, 10, time.UTC)
	now := time.Date(2025, 6, 10, 0, 30, 0, 0, time.UTC)

	if got := DaysRemainingAt(end, now); got != 0 {
		t.Fatalf("days remaining = %d, want 0", got)
	}
	if IsExpiredAt(end, now) {
		t.Fatal("trial must not read expired before its end instant")
	}
}

func TestEndOfDay(t *testing.T) {
	got := EndOfDay(2025, 6, 10, time.UTC)
	want := time.Date(2025, 6, 10, 23, 59, 59, int(999*time.Millisecond), time.UTC)
	if !got.Equal(want) {
		t.Fatalf("EndOfDay = %v, want %v", got, want)
	}
}

func TestEndOfDayFrom(t *testing.T) {
	input := time.Date(2025, 6, 10, 3, 4, 5, 6, time.UTC)
	got := EndOfDayFrom(input)
	want := EndOfDay(2025, 6, 10, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("EndOfDayFrom = %v, want %v", got, want)
	}
}

func TestUTCEndOfDayAfter(t *testing.T) {
	now := time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC)

	got := UTCEndOfDayAfter(now, 1)
	want := EndOfDay(2025, 6, 11, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("one day ahead = %v, want %v", got, want)
	}

	got = UTCEndOfDayAfter(now, 7)
	want = EndOfDay(2025, 6, 17, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("seven days ahead = %v, want %v", got, want)
	}
}

func TestUTCEndOfDayAfterNormalizesZone(t *testing.T) {
	sydney, err := time.LoadLocation("Australia/Sydney")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 09:00 in Sydney on June 11 is still June 10 UTC
	now := time.Date(2025, 6, 11, 9, 0, 0, 0, sydney)
	got := UTCEndOfDayAfter(now, 1)
	want := EndOfDay(2025, 6, 11, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
