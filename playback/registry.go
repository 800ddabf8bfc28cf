package playback

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"huepod/brain"
)

// Asset registry: every WAV under the asset directory decoded up front into
// an in-memory buffer at the engine rate. The device has a few dozen short
// assets; decoding on demand would put file I/O inside the reaction path.
//
// Assets are addressed by bare name (file name without the .wav extension).
// The bundled music tracks share the "track-" prefix; everything else is a
// response asset named after a color identity, family special or theme
// completion.

// engineRate is the fixed output rate. Assets at other rates are resampled
// once at load time.
const engineRate = beep.SampleRate(44100)

const resampleQuality = 4

// Registry holds the decoded assets.
type Registry struct {
	bufs  map[string]*beep.Buffer
	durs  map[string]time.Duration
	names []string
}

// LoadRegistry decodes every .wav in dir. Unreadable files are skipped with
// a warning; an empty registry is an error so a misconfigured asset_dir is
// caught at boot rather than on the first match.
func LoadRegistry(dir string, logger *slog.Logger) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read asset dir: %w", err)
	}

	r := &Registry{
		bufs: make(map[string]*beep.Buffer),
		durs: make(map[string]time.Duration),
	}
	format := beep.Format{SampleRate: engineRate, NumChannels: 2, Precision: 2}

	for _, ent := range entries {
		if ent.IsDir() || !strings.HasSuffix(ent.Name(), ".wav") {
			continue
		}
		name := strings.TrimSuffix(ent.Name(), ".wav")

		buf, err := decodeAsset(filepath.Join(dir, ent.Name()), format)
		if err != nil {
			logger.Warn("asset unreadable, skipping", "file", ent.Name(), "error", err)
			continue
		}

		r.bufs[name] = buf
		r.durs[name] = format.SampleRate.D(buf.Len())
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)

	if len(r.names) == 0 {
		return nil, fmt.Errorf("no playable assets in %s", dir)
	}

	logger.Info("assets loaded", "dir", dir, "count", len(r.names), "tracks", len(r.Tracks()))
	return r, nil
}

func decodeAsset(path string, format beep.Format) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	streamer, fileFormat, err := wav.Decode(f)
	if err != nil {
		return nil, err
	}
	defer streamer.Close()

	buf := beep.NewBuffer(format)
	if fileFormat.SampleRate == format.SampleRate {
		buf.Append(streamer)
	} else {
		buf.Append(beep.Resample(resampleQuality, fileFormat.SampleRate, format.SampleRate, streamer))
	}
	return buf, nil
}

// Names returns all asset names, sorted.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Tracks returns the sorted music track names (the "track-" prefix subset).
// This is the list idle rotation cycles through.
func (r *Registry) Tracks() []string {
	var tracks []string
	for _, name := range r.names {
		if strings.HasPrefix(name, brain.TrackAssetPrefix) {
			tracks = append(tracks, name)
		}
	}
	return tracks
}

// Len returns the number of loaded assets.
func (r *Registry) Len() int {
	return len(r.names)
}

// Duration returns the play length of an asset, zero if unknown.
func (r *Registry) Duration(name string) time.Duration {
	return r.durs[name]
}

func (r *Registry) buffer(name string) (*beep.Buffer, bool) {
	buf, ok := r.bufs[name]
	return buf, ok
}
