// Profiling:
// go build ./profile/churn
// go tool pprof -http=":8000" -nodefraction=0.001 ./churn mem.pprof

package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/edwinsyarief/kukan"
	"github.com/fulldump/goconfig"
	"github.com/pkg/profile"
)

type Config struct {
	Rounds int  `usage:"number of rounds, each on a fresh space"`
	Iters  int  `usage:"insert/remove cycles per round"`
	Items  int  `usage:"live items per cycle"`
	Grow   bool `usage:"start from an empty space instead of preallocating"`
}

type particle struct {
	X, Y, Z    float32
	VX, VY, VZ float32
}

func main() {
	c := Config{
		Rounds: 50,
		Iters:  1000,
		Items:  1000,
	}
	goconfig.Read(&c)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	start := time.Now()
	run(c)
	p.Stop()
	logger.Info("churn done",
		"rounds", c.Rounds,
		"iters", c.Iters,
		"items", c.Items,
		"elapsed", time.Since(start),
	)
}

func run(c Config) {
	handles := make([]kukan.Index, 0, c.Items)
	for range c.Rounds {
		s := kukan.WithCapacity[particle](c.Items)
		if c.Grow {
			s = kukan.New[particle]()
		}
		for range c.Iters {
			handles = handles[:0]
			for i := range c.Items {
				handles = append(handles, s.Insert(particle{X: float32(i), VX: 1}))
			}
			for it := s.Iter(); it.Next(); {
				v := it.Value()
				v.X += v.VX
				v.Y += v.VY
				v.Z += v.VZ
			}
			for _, h := range handles {
				s.Remove(h)
			}
		}
	}
}
