package nowplaying

import "testing"

func TestExtractStreamTitle(t *testing.T) {
	tests := []struct {
		name string
		meta string
		want string
	}{
		{
			name: "single quotes simple",
			meta: "StreamTitle='Artist - Track';",
			want: "Artist - Track",
		},
		{
			name: "quoted apostrophe",
			meta: "StreamTitle='JANE'S ADDICTION - BEEN CAUGHT STEALING';",
			want: "JANE'S ADDICTION - BEEN CAUGHT STEALING",
		},
		{
			name: "double quotes",
			meta: `StreamTitle="Double Quoted Title";`,
			want: "Double Quoted Title",
		},
		{
			name: "followed by StreamUrl",
			meta: "StreamTitle='A - B';StreamUrl='http://x';",
			want: "A - B",
		},
		{
			name: "missing terminator uses entire tail",
			meta: "StreamTitle='No Terminator",
			want: "No Terminator",
		},
		{
			name: "trim spaces and HTML entities",
			meta: "StreamTitle=' AC/DC &amp; Friends ';",
			want: "AC/DC & Friends",
		},
		{
			name: "nul padding",
			meta: "StreamTitle='Padded';\x00\x00\x00",
			want: "Padded",
		},
		{
			name: "empty result",
			meta: "StreamTitle='';",
			want: "",
		},
		{
			name: "no stream title present",
			meta: "StreamUrl='http://example'",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractStreamTitle(tt.meta); got != tt.want {
				t.Fatalf("extractStreamTitle(%q) = %q, want %q", tt.meta, got, tt.want)
			}
		})
	}
}

func TestParseTrack(t *testing.T) {
	tests := []struct {
		raw  string
		want Track
	}{
		{raw: "The Weeknd - Blinding Lights", want: Track{Title: "Blinding Lights", Artist: "The Weeknd"}},
		{raw: "  Jingle  ", want: Track{Title: "Jingle"}},
		{raw: "AC/DC &amp; Friends - Song", want: Track{Title: "Song", Artist: "AC/DC & Friends"}},
		{raw: "A - B - C", want: Track{Title: "B - C", Artist: "A"}},
		{raw: "", want: Track{}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := ParseTrack(tt.raw); got != tt.want {
				t.Fatalf("ParseTrack(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestTrackString(t *testing.T) {
	if got := (Track{Title: "T", Artist: "A"}).String(); got != "A - T" {
		t.Fatalf("String() = %q", got)
	}
	if got := (Track{Title: "T"}).String(); got != "T" {
		t.Fatalf("String() = %q", got)
	}
	if !(Track{Title: " "}).IsZero() {
		t.Fatal("blank track should be zero")
	}
}
