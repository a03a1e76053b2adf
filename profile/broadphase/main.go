// Profiling:
// go build ./profile/broadphase
// go tool pprof -http=":8000" -nodefraction=0.001 ./broadphase mem.pprof

package main

import (
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/edwinsyarief/kukan/geom"
	"github.com/edwinsyarief/kukan/scene"
	"github.com/fulldump/goconfig"
	"github.com/pkg/profile"
)

type Config struct {
	Objects int     `usage:"number of scene objects"`
	Frames  int     `usage:"number of simulated frames"`
	Moving  float64 `usage:"fraction of objects moved each frame"`
	World   float64 `usage:"edge length of the cubic world"`
	Debug   bool    `usage:"log every sync pass"`
}

func main() {
	c := Config{
		Objects: 10_000,
		Frames:  500,
		Moving:  0.1,
		World:   500,
	}
	goconfig.Read(&c)

	level := slog.LevelInfo
	if c.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	start := time.Now()
	pairs := run(c, logger)
	p.Stop()
	logger.Info("broadphase done",
		"objects", c.Objects,
		"frames", c.Frames,
		"pairs", pairs,
		"elapsed", time.Since(start),
	)
}

func randomPose(r *rand.Rand, world float64) geom.Pose {
	w := float32(world)
	return geom.Translation(r.Float32()*w, r.Float32()*w, r.Float32()*w)
}

func run(c Config, logger *slog.Logger) int {
	r := rand.New(rand.NewPCG(1, 2))
	set := scene.NewObjectSet()
	sy := scene.NewSynchronizer(logger)

	handles := make([]scene.Handle, 0, c.Objects)
	for i := range c.Objects {
		var b *scene.ObjectBuilder
		if i%2 == 0 {
			b = scene.Sphere(1 + r.Float32())
		} else {
			b = scene.Cube(1, 1+r.Float32(), 1)
		}
		handles = append(handles, set.Insert(b.WithPose(randomPose(r, c.World))))
	}

	pairs := 0
	moved := int(float64(c.Objects) * c.Moving)
	for range c.Frames {
		for range moved {
			h := handles[r.IntN(len(handles))]
			set.Modify(h, func(o *scene.SceneObject) {
				o.SetPose(randomPose(r, c.World))
			})
		}
		// Replace one object per frame so slots get reused.
		i := r.IntN(len(handles))
		set.Remove(handles[i])
		handles[i] = set.Insert(scene.Sphere(1).WithPose(randomPose(r, c.World)))

		sy.Sync(set)
		sy.Overlaps(func(a, b scene.Handle) bool {
			pairs++
			return true
		})
	}
	return pairs
}
