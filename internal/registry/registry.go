// Package registry maps meeting-room names to portal resource ids.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/codemon-ai/make-meeting-room/internal/constants"
	"github.com/codemon-ai/make-meeting-room/internal/logger"
	"github.com/codemon-ai/make-meeting-room/internal/models"
)

// ErrUnknownRoom is returned for a room name outside the target list.
var ErrUnknownRoom = errors.New("unknown meeting room")

// Source tells where the current resource ids came from.
type Source string

const (
	SourceStatic  Source = "static"
	SourceDynamic Source = "dynamic"
)

// TreeSource lists the portal's resource tree.
type TreeSource interface {
	FetchResourceTree(ctx context.Context) ([]models.ResourceNode, error)
}

// Registry holds the target rooms and their resource ids. It starts from
// the static table and is refreshed from the portal by Load.
type Registry struct {
	specs []constants.RoomSpec

	mu     sync.RWMutex
	rooms  []models.Room
	source Source
}

// New builds a registry for specs using their static ids.
func New(specs []constants.RoomSpec) *Registry {
	r := &Registry{specs: specs}
	r.rooms = staticRooms(specs)
	r.source = SourceStatic
	return r
}

func staticRooms(specs []constants.RoomSpec) []models.Room {
	rooms := make([]models.Room, 0, len(specs))
	for _, s := range specs {
		rooms = append(rooms, models.Room{
			Name:     s.Name,
			Floor:    s.Floor,
			Location: constants.Location,
			ResSeq:   s.ResSeq,
		})
	}
	return rooms
}

// Load walks the portal's resource tree and adopts the ids it finds for the
// target rooms. When the tree cannot be fetched or names none of the target
// rooms, the static table stays in effect and the fallback is logged.
func (r *Registry) Load(ctx context.Context, src TreeSource) Source {
	nodes, err := src.FetchResourceTree(ctx)
	if err != nil {
		return r.fallback(fmt.Sprintf("resource tree fetch failed: %v", err))
	}

	found := make(map[string]int)
	walk(nodes, func(n models.ResourceNode) {
		seq, ok := n.ResSeq.Int()
		if !ok || seq == 0 {
			return
		}
		for _, s := range r.specs {
			if strings.EqualFold(s.Name, strings.TrimSpace(n.ResNm)) {
				found[s.Name] = seq
			}
		}
	})
	if len(found) == 0 {
		return r.fallback("resource tree contained none of the target rooms")
	}

	rooms := staticRooms(r.specs)
	for i := range rooms {
		if seq, ok := found[rooms[i].Name]; ok {
			rooms[i].ResSeq = seq
		} else {
			logger.Warn("room missing from resource tree, using static id", "room", rooms[i].Name, "resSeq", rooms[i].ResSeq)
		}
	}

	r.mu.Lock()
	r.rooms = rooms
	r.source = SourceDynamic
	r.mu.Unlock()

	logger.Debug("room registry loaded", "source", SourceDynamic, "rooms", len(found))
	return SourceDynamic
}

func (r *Registry) fallback(reason string) Source {
	r.mu.Lock()
	r.rooms = staticRooms(r.specs)
	r.source = SourceStatic
	r.mu.Unlock()

	logger.Warn("room registry fallback to static table", "reason", reason)
	return SourceStatic
}

func walk(nodes []models.ResourceNode, fn func(models.ResourceNode)) {
	for _, n := range nodes {
		fn(n)
		walk(n.Children, fn)
	}
}

// Source reports where the current ids came from.
func (r *Registry) Source() Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.source
}

// Rooms returns the rooms in display order.
func (r *Registry) Rooms() []models.Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Room, len(r.rooms))
	copy(out, r.rooms)
	return out
}

// Names returns the room names in display order.
func (r *Registry) Names() []string {
	rooms := r.Rooms()
	names := make([]string, 0, len(rooms))
	for _, room := range rooms {
		names = append(names, room.Name)
	}
	return names
}

// Resolve finds a room by name, case-insensitively.
func (r *Registry) Resolve(name string) (models.Room, error) {
	name = strings.TrimSpace(name)
	for _, room := range r.Rooms() {
		if strings.EqualFold(room.Name, name) {
			return room, nil
		}
	}
	return models.Room{}, fmt.Errorf("%w: %s (available: %s)", ErrUnknownRoom, name, strings.Join(r.Names(), ", "))
}

// NameBySeq finds a room name by resource id.
func (r *Registry) NameBySeq(seq int) (string, bool) {
	for _, room := range r.Rooms() {
		if room.ResSeq == seq {
			return room.Name, true
		}
	}
	return "", false
}
