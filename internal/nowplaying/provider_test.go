package nowplaying

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/edward-ap/radiostream/internal/config"
)

func manualTicker() (tickFunc, chan time.Time) {
	ch := make(chan time.Time)
	return func(time.Duration) (<-chan time.Time, func()) { return ch, func() {} }, ch
}

func TestSimulatedCyclesAndResumes(t *testing.T) {
	sim := NewSimulated(nil, 0)
	tick, ch := manualTicker()
	sim.tick = tick

	got := make(chan Track, 16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sim.Watch(ctx, config.Stream{}, func(tr Track) { got <- tr }) }()

	want := []Track{DefaultPlaylist[0], DefaultPlaylist[1], DefaultPlaylist[2], DefaultPlaylist[3], DefaultPlaylist[0]}
	for i, w := range want {
		if i > 0 {
			ch <- time.Now()
		}
		select {
		case tr := <-got:
			if tr != w {
				t.Fatalf("step %d: got %+v, want %+v", i, tr, w)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("step %d: timeout", i)
		}
	}
	ch <- time.Now()
	<-got
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Watch returned %v, want context.Canceled", err)
	}
	if sim.Index() != 1 {
		t.Fatalf("Index() = %d, want 1", sim.Index())
	}

	// resuming starts from the stored position
	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel2()
	go func() { _ = sim.Watch(ctx2, config.Stream{}, func(tr Track) { got <- tr }) }()
	select {
	case tr := <-got:
		if tr != DefaultPlaylist[1] {
			t.Fatalf("resume emitted %+v, want %+v", tr, DefaultPlaylist[1])
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout on resume")
	}
}

func TestStatusJSONSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "status-json.xsl") {
			io.WriteString(w, `{"icestats":{"source":[{"title":"Other","listenurl":"http://h/other"},{"title":"Foo - Bar","listenurl":"http://h/live/stream"}]}}`)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	strat := newStatusJSONStrategy(srv.Client(), zerolog.Nop())
	got := make(chan Track, 1)
	go func() {
		_ = strat.Watch(ctx, srv.URL+"/live/stream", "", func(tr Track) {
			got <- tr
			cancel()
		})
	}()

	select {
	case tr := <-got:
		if tr.Title != "Bar" || tr.Artist != "Foo" {
			t.Fatalf("unexpected track: %+v", tr)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for metadata")
	}
}

func TestStatusJSONNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	strat := newStatusJSONStrategy(srv.Client(), zerolog.Nop())
	if err := strat.Watch(ctx, srv.URL+"/stream", "", func(Track) {}); !errors.Is(err, errNoStatus) {
		t.Fatalf("expected errNoStatus, got %v", err)
	}
}

func TestStatusJSONInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{broken"))
	}))
	defer srv.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	strat := newStatusJSONStrategy(srv.Client(), zerolog.Nop())
	if err := strat.Watch(ctx, srv.URL+"/stream", "", func(Track) {}); err == nil {
		t.Fatal("expected error for invalid json")
	}
}

func TestBuildStatusURL(t *testing.T) {
	got, err := buildStatusURL("http://radio.example:8000/live/rock.mp3?token=1")
	if err != nil {
		t.Fatal(err)
	}
	if got != "http://radio.example:8000/live/status-json.xsl" {
		t.Fatalf("buildStatusURL = %q", got)
	}
}

func TestICYStrategyReadsTitles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Icy-MetaData") != "1" {
			t.Errorf("missing Icy-MetaData request header")
		}
		w.Header().Set("icy-metaint", "1")
		w.Header().Set("icy-name", "Rock Paradise")
		body := append(buildICYBody("Artist One - Song One"), buildICYBody("Artist One - Song One")...)
		body = append(body, buildICYBody("Artist Two - Song Two")...)
		w.Write(body)
	}))
	defer srv.Close()

	strat := newICYStrategy(srv.Client(), zerolog.Nop())
	var tracks []Track
	err := strat.Watch(context.Background(), srv.URL+"/rock", func(tr Track) { tracks = append(tracks, tr) })
	if err == nil {
		t.Fatal("expected EOF once the body ends")
	}
	if len(tracks) != 2 {
		t.Fatalf("got %d tracks (%+v), want 2 with duplicates collapsed", len(tracks), tracks)
	}
	if tracks[1] != (Track{Title: "Song Two", Artist: "Artist Two"}) {
		t.Fatalf("second track = %+v", tracks[1])
	}
}

func TestICYStrategyFollowsRelativeRedirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/live/rock":
			w.Header().Set("Location", "stream.mp3")
			w.WriteHeader(http.StatusFound)
		case "/live/stream.mp3":
			w.Header().Set("icy-metaint", "1")
			w.Write(buildICYBody("Artist - Redirected"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := srv.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	strat := newICYStrategy(client, zerolog.Nop())
	var tracks []Track
	_ = strat.Watch(context.Background(), srv.URL+"/live/rock", func(tr Track) { tracks = append(tracks, tr) })
	if len(tracks) != 1 || tracks[0] != (Track{Title: "Redirected", Artist: "Artist"}) {
		t.Fatalf("tracks after relative redirect = %+v", tracks)
	}
}

func TestDispatcherAutoFallsBackToJSON(t *testing.T) {
	var statusHits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rock-flac":
			w.Write([]byte("no icy"))
		case "/status-json.xsl":
			statusHits.Add(1)
			io.WriteString(w, `{"icestats":{"source":{"title":"A - B","server_name":"Station"}}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	d := NewDispatcher(srv.Client(), zerolog.Nop(), nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	got := make(chan Track, 1)
	stream := config.Stream{ID: 1, Name: "Rock", URL: srv.URL + "/rock-flac", Metadata: config.MetadataHint{Type: config.MetadataAuto}}
	go d.Watch(ctx, stream, func(tr Track) {
		got <- tr
		cancel()
	})

	select {
	case tr := <-got:
		if tr != (Track{Title: "B", Artist: "A"}) {
			t.Fatalf("unexpected track %+v", tr)
		}
	case <-time.After(4 * time.Second):
		t.Fatal("timeout waiting for JSON strategy")
	}
	if statusHits.Load() == 0 {
		t.Fatal("expected status-json to be polled")
	}
}

func TestDispatcherAutoFallsBackToSimulated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/stream" {
			w.Write([]byte("audio"))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	d := NewDispatcher(srv.Client(), zerolog.Nop(), nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	got := make(chan Track, 1)
	stream := config.Stream{ID: 1, Name: "Rock", URL: srv.URL + "/stream", Metadata: config.MetadataHint{Type: config.MetadataAuto}}
	go d.Watch(ctx, stream, func(tr Track) { got <- tr })

	select {
	case tr := <-got:
		if tr != DefaultPlaylist[0] {
			t.Fatalf("fallback track = %+v, want first simulated track", tr)
		}
	case <-time.After(4 * time.Second):
		t.Fatal("timeout waiting for simulated fallback")
	}
}

func TestDispatcherDefaultsToSimulated(t *testing.T) {
	d := NewDispatcher(nil, zerolog.Nop(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan Track, 1)
	go d.Watch(ctx, config.Stream{ID: 1, Metadata: config.MetadataHint{Type: config.MetadataSimulated}}, func(tr Track) {
		select {
		case got <- tr:
		default:
		}
	})
	select {
	case tr := <-got:
		if tr != DefaultPlaylist[0] {
			t.Fatalf("got %+v, want first simulated track", tr)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout")
	}
}

func buildICYBody(title string) []byte {
	buf := bytes.NewBuffer(nil)
	buf.WriteByte(0) // one audio byte per metaint=1
	meta := fmt.Sprintf("StreamTitle='%s';", title)
	for len(meta)%16 != 0 {
		meta += "\x00"
	}
	buf.WriteByte(byte(len(meta) / 16))
	buf.WriteString(meta)
	return buf.Bytes()
}
