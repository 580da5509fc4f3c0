package snapshot

import (
	"context"
	"fmt"
	"slices"

	"github.com/genricoloni/playersnap/internal/domain"
	"github.com/genricoloni/playersnap/internal/mpris"
	"github.com/godbus/dbus/v5"
)

type fakeTrack struct {
	id  dbus.ObjectPath
	uri string
}

// fakePlayer simulates one MPRIS player on the bus, enough to run capture and restore against it
type fakePlayer struct {
	service    string
	registered bool
	pid        uint32

	queue    []fakeTrack
	nextID   int
	current  string
	position int64
	status   domain.PlayerStatus
	volume   float64
	loop     domain.LoopStatus
	shuffle  bool

	calls []string
	// failOn names a property or method that answers with an error
	failOn string
}

func newFakePlayer(service string) *fakePlayer {
	return &fakePlayer{
		service: service,
		pid:     4242,
		status:  domain.StatusStopped,
		volume:  1.0,
		loop:    domain.LoopNone,
	}
}

func (f *fakePlayer) Close() error { return nil }

func (f *fakePlayer) ListNames(context.Context) ([]string, error) {
	names := []string{"org.freedesktop.DBus", ":1.7"}
	if f.registered {
		names = append(names, f.service)
	}
	return names, nil
}

func (f *fakePlayer) ConnectionPID(_ context.Context, name string) (uint32, error) {
	if !f.registered || name != f.service {
		return 0, fmt.Errorf("name %s has no owner", name)
	}
	return f.pid, nil
}

func (f *fakePlayer) GetProperty(_ context.Context, service, path, iface, key string) (dbus.Variant, error) {
	if err := f.check(service, path); err != nil {
		return dbus.Variant{}, err
	}
	if key == f.failOn {
		return dbus.Variant{}, fmt.Errorf("%s unavailable", key)
	}
	switch iface + "." + key {
	case mpris.TrackListInterface + ".Tracks":
		ids := make([]dbus.ObjectPath, 0, len(f.queue))
		for _, t := range f.queue {
			ids = append(ids, t.id)
		}
		return dbus.MakeVariant(ids), nil
	case mpris.PlayerInterface + ".Metadata":
		meta := map[string]dbus.Variant{}
		if f.current != "" {
			meta["xesam:url"] = dbus.MakeVariant(f.current)
		}
		return dbus.MakeVariant(meta), nil
	case mpris.PlayerInterface + ".Position":
		return dbus.MakeVariant(f.position), nil
	case mpris.PlayerInterface + ".PlaybackStatus":
		return dbus.MakeVariant(string(f.status)), nil
	case mpris.PlayerInterface + ".Volume":
		return dbus.MakeVariant(f.volume), nil
	case mpris.PlayerInterface + ".LoopStatus":
		return dbus.MakeVariant(string(f.loop)), nil
	case mpris.PlayerInterface + ".Shuffle":
		return dbus.MakeVariant(f.shuffle), nil
	}
	return dbus.Variant{}, fmt.Errorf("unknown property %s.%s", iface, key)
}

func (f *fakePlayer) SetProperty(_ context.Context, service, path, iface, key string, value any) error {
	if err := f.check(service, path); err != nil {
		return err
	}
	if key == f.failOn {
		return fmt.Errorf("%s rejected", key)
	}
	f.calls = append(f.calls, fmt.Sprintf("set(%s,%v)", key, value))
	switch key {
	case "Shuffle":
		f.shuffle = value.(bool)
	case "LoopStatus":
		f.loop = domain.LoopStatus(value.(string))
	case "Volume":
		f.volume = value.(float64)
	default:
		return fmt.Errorf("property %s is read-only", key)
	}
	return nil
}

func (f *fakePlayer) Call(_ context.Context, service, path, iface, method string, args ...any) ([]any, error) {
	if err := f.check(service, path); err != nil {
		return nil, err
	}
	if method == f.failOn {
		return nil, fmt.Errorf("%s failed", method)
	}
	switch method {
	case "AddTrack":
		uri := args[0].(string)
		if args[1].(dbus.ObjectPath) != mpris.NoTrack {
			return nil, fmt.Errorf("fake only supports inserting after NoTrack")
		}
		f.nextID++
		track := fakeTrack{id: dbus.ObjectPath(fmt.Sprintf("/org/videolan/vlc/tracks/%d", f.nextID)), uri: uri}
		f.queue = slices.Insert(f.queue, 0, track)
		if args[2].(bool) {
			f.current = uri
			f.position = 0
		}
		f.calls = append(f.calls, fmt.Sprintf("addTrack(%s)", uri))
	case "GetTracksMetadata":
		ids := args[0].([]dbus.ObjectPath)
		out := make([]map[string]dbus.Variant, 0, len(ids))
		for _, id := range ids {
			for _, t := range f.queue {
				if t.id == id {
					out = append(out, map[string]dbus.Variant{
						"mpris:trackid": dbus.MakeVariant(t.id),
						"xesam:url":     dbus.MakeVariant(t.uri),
					})
				}
			}
		}
		return []any{out}, nil
	case "Play":
		f.status = domain.StatusPlaying
		f.calls = append(f.calls, "play()")
	case "Pause":
		f.status = domain.StatusPaused
		f.calls = append(f.calls, "pause()")
	case "Stop":
		f.status = domain.StatusStopped
		f.calls = append(f.calls, "stop()")
	case "Seek":
		f.position += args[0].(int64)
		f.calls = append(f.calls, fmt.Sprintf("seek(%d)", args[0].(int64)))
	default:
		return nil, fmt.Errorf("unknown method %s.%s", iface, method)
	}
	return nil, nil
}

func (f *fakePlayer) check(service, path string) error {
	if !f.registered || service != f.service {
		return fmt.Errorf("service %s unknown", service)
	}
	if path != mpris.ObjectPath {
		return fmt.Errorf("no object at %s", path)
	}
	return nil
}

func (f *fakePlayer) queueURIs() []string {
	uris := make([]string, 0, len(f.queue))
	for _, t := range f.queue {
		uris = append(uris, t.uri)
	}
	return uris
}

// fakeDesktop is a window manager holding a single window for the fake player
type fakeDesktop struct {
	player *fakePlayer
	window domain.WindowInfo
	calls  *[]string
	fail   bool
}

func (d *fakeDesktop) FindWindowsByPID(_ context.Context, pid uint32) ([]domain.WindowInfo, error) {
	if !d.player.registered || pid != d.player.pid {
		return nil, nil
	}
	return []domain.WindowInfo{d.window}, nil
}

func (d *fakeDesktop) ApplyWindowState(_ context.Context, handle uint32, desktop int, states []string, geometry domain.Geometry) error {
	if d.fail {
		return fmt.Errorf("window manager refused request")
	}
	if handle != d.window.Handle {
		return fmt.Errorf("bad window 0x%x", handle)
	}
	d.window.Desktop = desktop
	d.window.States = slices.Clone(states)
	d.window.Geometry = geometry
	*d.calls = append(*d.calls, fmt.Sprintf("window-apply(%d)", desktop))
	return nil
}

// fakeLauncher registers the fake player on Spawn
type fakeLauncher struct {
	player *fakePlayer
	spawns int
}

func (l *fakeLauncher) Spawn(context.Context) error {
	l.spawns++
	l.player.registered = true
	return nil
}

func (l *fakeLauncher) KillByName(context.Context, string) (int, error) {
	killed := 0
	if l.player.registered {
		killed = 1
	}
	l.player.registered = false
	return killed, nil
}
