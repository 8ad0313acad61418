package gamemap

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"sandbox-engine/internal/game"
)

const (
	barrierSpacing   = 2
	barrierZ         = 4.5
	milestoneSpacing = 10
	milestoneZ       = 5.5
)

// LongRoad is a straight road lined with barriers. Milestones double as time trial
// checkpoints.
type LongRoad struct {
	*Map
	BaseHooks
	Trial *game.TimeTrialMode

	checkpoints []string
}

func newLongRoad(m *Map, def Definition, opts BuildOptions) Instance {
	lr := &LongRoad{Map: m}
	lr.addBarriers()
	lr.addMilestones()
	m.SetHooks(lr)
	if mode, ok := game.NewByKind(def.Mode, opts.Modes); ok {
		if trial, ok := mode.(*game.TimeTrialMode); ok {
			lr.Trial = trial
		}
		m.SetGameMode(mode)
	}
	return lr
}

// Checkpoints returns the checkpoint ids placed along the road.
func (lr *LongRoad) Checkpoints() []string { return lr.checkpoints }

func (lr *LongRoad) addBarriers() {
	half := float32(lr.width) * lr.cellSize / 2
	for x := -half; x <= half; x += barrierSpacing {
		for _, z := range []float32{-barrierZ, barrierZ} {
			lr.root.AddProp(Prop{
				Kind:     PropBarrier,
				Position: mgl32.Vec3{x, 0.5, z},
				Size:     mgl32.Vec3{1.8, 1, 0.3},
				Color:    "#C0392B",
			})
			lr.Occupy(lr.WorldToGrid(x, z))
		}
	}
}

func (lr *LongRoad) addMilestones() {
	half := float32(lr.width) * lr.cellSize / 2
	for x := -half; x <= half; x += milestoneSpacing {
		for _, z := range []float32{-milestoneZ, milestoneZ} {
			lr.root.AddProp(Prop{
				Kind:     PropMilestone,
				Position: mgl32.Vec3{x, 0.5, z},
				Size:     mgl32.Vec3{0.4, 1, 0.4},
				Color:    "#F1C40F",
			})
		}
		lr.checkpoints = append(lr.checkpoints, fmt.Sprintf("milestone%+d", int(x)))
	}
}

// OnGameStart registers every milestone as a checkpoint of the trial.
func (lr *LongRoad) OnGameStart() {
	if lr.Trial == nil {
		return
	}
	for _, id := range lr.checkpoints {
		lr.Trial.AddCheckpoint(id)
	}
}

// OnGameEnd logs the result.
func (lr *LongRoad) OnGameEnd(summary game.EndSummary) {
	lr.log.Info("long road finished", "score", summary.Score, "time_ms", summary.TimePlayed)
}
