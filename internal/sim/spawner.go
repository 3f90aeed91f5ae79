package sim

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"voxelrift/internal/collision"
	"voxelrift/internal/events"
	"voxelrift/internal/mathutil"
	"voxelrift/internal/monster"
)

// updateSpawner adds one mob per interval while below the cap. The timer keeps
// accumulating while the cap is reached, so a freed slot is filled on the next tick.
func (s *Simulation) updateSpawner(dt time.Duration) {
	s.spawnTimer += dt
	if s.spawnTimer < s.cfg.Spawn.Interval || s.mobs.Len() >= s.cfg.Spawn.Max {
		return
	}
	s.spawnTimer = 0
	if _, err := s.SpawnMob(); err != nil {
		s.log.Warn("spawn skipped", "error", err)
	}
}

// SpawnMob places a mob at a random point of the central area of the grid, away from
// the player.
func (s *Simulation) SpawnMob() (collision.EntityID, error) {
	pos, err := s.findSpawnPoint()
	if err != nil {
		return 0, err
	}
	return s.SpawnMobAt(pos), nil
}

// SpawnMobAt places a mob standing on the terrain at the x/z of pos
func (s *Simulation) SpawnMobAt(pos mgl64.Vec3) collision.EntityID {
	pos[1] = s.world.TerrainHeight(pos.X(), pos.Z()) + s.cfg.Mobs.FootOffset
	m := monster.NewMonster(s.cfg.Mobs, pos)
	id := s.mobs.Insert(m)
	s.hits.RegisterEntity(id, m.HitVolumes()...)
	s.emit(events.Event{Kind: events.MobSpawned, Pos: pos, Mob: id})
	s.log.Debug("mob spawned", "mob", uint64(id), "x", pos.X(), "z", pos.Z(), "mobs", s.mobs.Len())
	return id
}

func (s *Simulation) findSpawnPoint() (mgl64.Vec3, error) {
	full := s.world.Extent()
	mid := full/2 - s.world.HalfExtent()
	extent := full * s.cfg.Spawn.AreaFraction
	for range s.cfg.Spawn.Attempts {
		p := mgl64.Vec3{
			mid + (s.rng.Float64()-0.5)*extent,
			0,
			mid + (s.rng.Float64()-0.5)*extent,
		}
		if !s.world.InBounds(p.X(), p.Z()) {
			continue
		}
		if mathutil.HorizontalDistance(p, s.player.Position) >= s.cfg.Spawn.MinDistance {
			return p, nil
		}
	}
	return mgl64.Vec3{}, fmt.Errorf("after %d attempts: %w", s.cfg.Spawn.Attempts, ErrNoSpawnPoint)
}
