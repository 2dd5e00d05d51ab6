package transcript

import "testing"

func TestEntrySegmentDerivesEnd(t *testing.T) {
	cases := []struct {
		name  string
		entry Entry
		want  Segment
	}{
		{"explicit end wins", Entry{Text: "a", Start: 1, Duration: 9, HasDuration: true, End: 2.5, HasEnd: true}, Segment{Text: "a", Start: 1, End: 2.5}},
		{"duration", Entry{Text: "b", Start: 1, Duration: 2, HasDuration: true}, Segment{Text: "b", Start: 1, End: 3}},
		{"zero duration kept", Entry{Text: "c", Start: 4, HasDuration: true}, Segment{Text: "c", Start: 4, End: 4}},
		{"missing duration defaults", Entry{Text: "d", Start: 4}, Segment{Text: "d", Start: 4, End: 7}},
		{"negative start clamps", Entry{Text: "e", Start: -1, End: 0.5, HasEnd: true}, Segment{Text: "e", Start: 0, End: 0.5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.entry.Segment(); got != tc.want {
				t.Fatalf("got %+v want %+v", got, tc.want)
			}
		})
	}
}

func TestFromEntriesKeepsOrderAndOverlaps(t *testing.T) {
	entries := []Entry{
		{Text: "second", Start: 5, Duration: 2, HasDuration: true},
		{Text: "first", Start: 1, Duration: 10, HasDuration: true},
	}
	result := FromEntries(entries, "en")
	if result.Segments[0].Text != "second" || result.Segments[1].End != 11 {
		t.Fatalf("expected input order and overlaps preserved, got %+v", result.Segments)
	}
	if result.Text != "second first" || result.Language != "en" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestJoinTextSkipsBlank(t *testing.T) {
	got := JoinText([]Segment{{Text: " a "}, {Text: "  "}, {Text: "b"}})
	if got != "a b" {
		t.Fatalf("unexpected join %q", got)
	}
}
