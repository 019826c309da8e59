package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/danmaku/ecs"
)

func selectedOrder(w *testWorld) int {
	selected := -1
	w.storage(func(s *ecs.Storage) {
		for _, item := range ecs.All[Selectable](s) {
			if item.Selected {
				selected = item.Order
			}
		}
	})
	return selected
}

func TestWorldStartsInMenu(t *testing.T) {
	w := newTestWorld(t)

	assert.Equal(t, StateMenu, w.State())
	assert.Equal(t, []string{SoundTitle}, w.audio.played)
	assert.Equal(t, 3, w.count(func(s *ecs.Storage) int { return s.Len() }))
}

func TestMenuNavigation(t *testing.T) {
	w := newTestWorld(t)
	w.Step()
	assert.Equal(t, 0, selectedOrder(w))

	w.press(KeyDown)
	w.Step()
	assert.Equal(t, 1, selectedOrder(w))

	w.press(KeyDown)
	w.Step()
	assert.Equal(t, 0, selectedOrder(w), "down wraps to the top")

	w.press(KeyUp)
	w.Step()
	assert.Equal(t, 1, selectedOrder(w), "up wraps to the bottom")

	assert.Equal(t, 3, w.audio.count(SoundSelect))
	assert.Zero(t, w.app.exits)
}

func TestMenuHighlightAnimates(t *testing.T) {
	w := newTestWorld(t)
	w.steps(3)

	w.storage(func(s *ecs.Storage) {
		for id, item := range ecs.All[Selectable](s) {
			anim := ecs.ReadComponent[Animation](s, id)
			require.NotNil(t, anim)
			assert.Equal(t, item.Selected, anim.Active)
			if item.Selected {
				assert.Equal(t, 3, anim.Index())
			} else {
				assert.Zero(t, anim.Index())
			}
		}
	})
}

func TestMenuCancelJumpsToExit(t *testing.T) {
	w := newTestWorld(t)

	w.press(KeyX)
	w.Step()
	assert.Equal(t, 1, selectedOrder(w))
	assert.Zero(t, w.app.exits)

	w.press(KeyX)
	assert.Equal(t, 1, w.app.exits)
}

func TestMenuExitEntry(t *testing.T) {
	w := newTestWorld(t)
	w.press(KeyDown)
	w.press(KeyEnter)

	assert.Equal(t, 1, w.app.exits)
	assert.Equal(t, StateMenu, w.State())
}

func TestMenuStartsStage(t *testing.T) {
	w := newTestWorld(t)
	w.enterStage(t)

	assert.Equal(t, []string{SoundTitle}, w.audio.stopped)
	assert.Contains(t, w.audio.played, SoundStage1)
	assert.Equal(t, Scoreboard{Lives: startLives, Stars: maxStars}, w.scoreboard())
	assert.Equal(t, 1, w.count(func(s *ecs.Storage) int { return ecs.Count[Player](s) }))
}

func TestRepeatedKeysAreIgnoredByThePlayer(t *testing.T) {
	w := newTestWorld(t)
	w.enterStage(t)

	w.hold(KeyRight)
	w.Dispatch(KeyEvent{Key: KeyRight, Pressed: true, Repeat: true})
	w.release(KeyRight)
	w.Step()

	pos, _ := w.player()
	assert.Equal(t, PlayerSpawn.X, pos.X)
}

func TestPlayerMovement(t *testing.T) {
	tests := []struct {
		name string
		keys []Key
		x, y float64
	}{
		{"right", []Key{KeyRight}, PlayerSpawn.X + 8, PlayerSpawn.Y},
		{"up", []Key{KeyUp}, PlayerSpawn.X, PlayerSpawn.Y - 8},
		{"left and down", []Key{KeyLeft, KeyDown}, PlayerSpawn.X - 5.68, PlayerSpawn.Y + 5.68},
		{"low speed", []Key{KeyShift, KeyRight}, PlayerSpawn.X + 4, PlayerSpawn.Y},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t)
			w.enterStage(t)
			for _, k := range tt.keys {
				w.hold(k)
			}
			w.Step()

			pos, state := w.player()
			assert.InDelta(t, tt.x, pos.X, 1e-9)
			assert.InDelta(t, tt.y, pos.Y, 1e-9)
			assert.Equal(t, tt.keys[0] == KeyShift, state.LowSpeed)

			for _, k := range tt.keys {
				w.release(k)
			}
			w.Step()
			after, _ := w.player()
			assert.Equal(t, pos, after, "released keys stop the player")
		})
	}
}

func TestPlayerCannotMoveWhileReviving(t *testing.T) {
	w := newTestWorld(t)
	w.enterStage(t)
	w.storage(func(s *ecs.Storage) {
		for _, state := range ecs.All[PlayerState](s) {
			state.Invincible = hitInvincibility
		}
	})

	w.hold(KeyLeft)
	w.steps(10)
	pos, state := w.player()
	assert.Equal(t, PlayerSpawn.X, pos.X)
	assert.Equal(t, hitInvincibility-10, state.Invincible)

	w.steps(hitInvincibility - playerReviveTime)
	pos, _ = w.player()
	assert.Less(t, pos.X, PlayerSpawn.X)
}

func TestPlayerFireCooldown(t *testing.T) {
	w := newTestWorld(t)
	w.enterStage(t)
	dans := func() int { return w.count(func(s *ecs.Storage) int { return ecs.Count[PlayerBullet](s) }) }

	w.hold(KeyZ)
	w.Step()
	assert.Equal(t, 1, dans())

	w.steps(playerFireDelay)
	assert.Equal(t, 1, dans())

	w.Step()
	assert.Equal(t, 2, dans())

	w.release(KeyZ)
	w.steps(3 * playerFireDelay)
	assert.Zero(t, dans(), "shots leave the top of the field")
}

func TestBomb(t *testing.T) {
	w := newTestWorld(t)
	w.enterStage(t)

	var weak, strong ecs.EntityId
	w.storage(func(s *ecs.Storage) {
		for i := range 5 {
			s.Spawn(enemyBullet(float64(10+i*20), 100, 0, 0, DefaultBulletSize)...)
		}
		weak = s.Spawn(Enemy{}, Position{X: 100, Y: 50}, Size{W: 32, H: 64}, Health{Remaining: 20})
		strong = s.Spawn(Enemy{}, Position{X: 300, Y: 50}, Size{W: 32, H: 64}, Health{Remaining: 40})
	})

	w.press(KeyX)
	w.Step()

	board := w.scoreboard()
	assert.Equal(t, maxStars-1, board.Stars)
	assert.Equal(t, killScore, board.Score)
	assert.Zero(t, w.count(func(s *ecs.Storage) int { return ecs.Count[EnemyBullet](s) }))
	w.storage(func(s *ecs.Storage) {
		assert.False(t, s.Alive(weak))
		require.True(t, s.Alive(strong))
		assert.Equal(t, 10, ecs.ReadComponent[Health](s, strong).Remaining)
	})
	_, state := w.player()
	assert.Equal(t, float64(bombStartY), state.BombY)

	w.press(KeyX)
	w.Step()
	assert.Equal(t, maxStars-1, w.scoreboard().Stars, "sweep still low on the screen")

	w.steps(8)
	w.press(KeyX)
	w.Step()
	assert.Equal(t, maxStars-2, w.scoreboard().Stars)
}

func TestBombedEnemiesFireNoVolley(t *testing.T) {
	w := newTestWorld(t)
	w.enterStage(t)

	var enemy ecs.EntityId
	w.storage(func(s *ecs.Storage) {
		enemy = s.Spawn(Enemy1()...)
		ecs.ReadComponent[Health](s, enemy).Remaining = 1
		require.Zero(t, ecs.ReadComponent[Shooter](s, enemy).Cooldown, "shooter is due this tick")
	})

	w.press(KeyX)
	w.Step()

	w.storage(func(s *ecs.Storage) {
		assert.False(t, s.Alive(enemy))
		assert.Zero(t, ecs.Count[EnemyBullet](s))
		assert.Zero(t, ecs.Count[Enemy](s))
	})
	assert.Equal(t, killScore, w.scoreboard().Score)
}

func TestBombNeedsStars(t *testing.T) {
	w := newTestWorld(t)
	w.enterStage(t)
	w.storage(func(s *ecs.Storage) {
		var board *Scoreboard
		s.ReadSingleton(&board)
		board.Stars = 0
		s.Spawn(enemyBullet(10, 100, 0, 0, DefaultBulletSize)...)
	})

	w.press(KeyX)
	w.Step()

	assert.Equal(t, 1, w.count(func(s *ecs.Storage) int { return ecs.Count[EnemyBullet](s) }))
	_, state := w.player()
	assert.Less(t, state.BombY, float64(bombEndY))
}

func TestOutOfLivesReturnsToMenu(t *testing.T) {
	w := newTestWorld(t)
	w.enterStage(t)
	w.storage(func(s *ecs.Storage) {
		var board *Scoreboard
		s.ReadSingleton(&board)
		board.Lives = 0
		s.Spawn(enemyBullet(PlayerSpawn.X+playerHitOffsetX-5, PlayerSpawn.Y+playerHitOffsetY-5, 0, 0, 10)...)
	})

	w.Step()

	assert.Equal(t, StateMenu, w.State())
	assert.Contains(t, w.audio.played, SoundHit)
	assert.Equal(t, 2, w.audio.count(SoundTitle))
}

func TestSessionKeys(t *testing.T) {
	t.Run("restart", func(t *testing.T) {
		w := newTestWorld(t)
		w.enterStage(t)

		var before ecs.EntityId
		w.storage(func(s *ecs.Storage) {
			for id := range ecs.All[Player](s) {
				before = id
			}
			for i := range 50 {
				s.Spawn(enemyBullet(float64(i), 10, 1, 0, DefaultBulletSize)...)
			}
		})
		w.steps(5)

		w.press(KeyR)
		assert.Equal(t, StateStage(1), w.State())
		assert.Zero(t, w.StageTick())
		assert.Zero(t, w.count(func(s *ecs.Storage) int { return ecs.Count[EnemyBullet](s) }))
		assert.Equal(t, 3, w.count(func(s *ecs.Storage) int { return s.Len() }))

		w.storage(func(s *ecs.Storage) {
			for id := range ecs.All[Player](s) {
				assert.Greater(t, id, before, "ids are never reused")
			}
		})
	})

	t.Run("back to menu", func(t *testing.T) {
		w := newTestWorld(t)
		w.enterStage(t)
		w.press(KeyB)
		assert.Equal(t, StateMenu, w.State())
	})

	t.Run("quit", func(t *testing.T) {
		w := newTestWorld(t)
		w.enterStage(t)
		w.press(KeyQ)
		assert.Equal(t, 1, w.app.exits)
	})

	t.Run("subscriptions follow the state", func(t *testing.T) {
		w := newTestWorld(t)
		assert.Equal(t, 1, w.keyboard.Len())
		w.enterStage(t)
		assert.Equal(t, 2, w.keyboard.Len())
		w.press(KeyB)
		assert.Equal(t, 1, w.keyboard.Len())
	})
}

func TestStageOneOpening(t *testing.T) {
	w := newTestWorld(t)
	w.enterStage(t)

	w.steps(179)
	assert.Zero(t, w.count(func(s *ecs.Storage) int { return ecs.Count[Enemy](s) }))

	w.Step()
	require.Equal(t, 180, w.StageTick())

	var first ecs.EntityId
	w.storage(func(s *ecs.Storage) {
		require.Equal(t, 2, ecs.Count[Enemy](s))
		for id := range ecs.All[Enemy](s) {
			if ecs.ReadComponent[Velocity](s, id).Direction == 80 {
				first = id
				break
			}
		}
		pos := ecs.ReadComponent[Position](s, first)
		assert.Equal(t, Position{X: -10, Y: 50}, *pos)
	})
	require.NotZero(t, first)

	w.Step()
	w.storage(func(s *ecs.Storage) {
		pos := ecs.ReadComponent[Position](s, first)
		assert.InDelta(t, -5.1, pos.X, 1e-9)
		assert.InDelta(t, 50.85, pos.Y, 1e-9)
		assert.Equal(t, 5+3, ecs.Count[EnemyBullet](s), "five aimed and three aimed shots")
	})

	w.steps(297 - 181)
	require.Equal(t, 297, w.StageTick())
	assert.True(t, w.count(func(s *ecs.Storage) int {
		if s.Alive(first) {
			return 1
		}
		return 0
	}) == 1)

	w.Step()
	assert.Zero(t, w.count(func(s *ecs.Storage) int {
		if s.Alive(first) {
			return 1
		}
		return 0
	}), "deleted once more than half of it is past the right edge")
	assert.Equal(t, StateStage(1), w.State())
}

func TestOpeningEnemyKeepsShooting(t *testing.T) {
	opening := func(int) Timeline {
		return Timeline{{Name: "opening", Match: At(180), Spawn: spawnAll(Enemy1)}}
	}
	w := newTestWorldWith(t, Options{Seed: 1, Timeline: opening})
	w.enterStage(t)
	w.steps(180)

	var enemy ecs.EntityId
	w.storage(func(s *ecs.Storage) {
		for id := range ecs.All[Enemy](s) {
			enemy = id
		}
	})
	require.NotZero(t, enemy)

	w.steps(15)
	require.Equal(t, 195, w.StageTick())
	w.storage(func(s *ecs.Storage) {
		require.True(t, s.Alive(enemy))
		assert.Equal(t, 1, ecs.Count[Enemy](s))
		assert.Equal(t, 5, ecs.ReadComponent[Health](s, enemy).Remaining)
		assert.Less(t, ecs.ReadComponent[Position](s, enemy).X, float64(FieldWidth), "still on the field")
		assert.GreaterOrEqual(t, ecs.Count[EnemyBullet](s), 5, "second volley is out")
	})
}

func TestSeededStagesReplay(t *testing.T) {
	randomPairs := func(int) Timeline {
		return Timeline{{Name: "random pairs", Match: Every(1, 1000, 30), Spawn: spawnAll(Enemy7, Enemy8)}}
	}
	run := func(seed uint64) []Position {
		w := newTestWorldWith(t, Options{Seed: seed, Timeline: randomPairs})
		w.enterStage(t)
		w.steps(200)
		var out []Position
		w.storage(func(s *ecs.Storage) {
			for _, p := range ecs.All[Position](s) {
				out = append(out, *p)
			}
		})
		return out
	}

	first := run(1)
	assert.Greater(t, len(first), 20)
	assert.Equal(t, first, run(1))
	assert.NotEqual(t, first, run(2))
}

func TestStopIsFinal(t *testing.T) {
	w := newTestWorld(t)
	w.Stop()
	w.Stop()

	w.Dispatch(KeyEvent{Key: KeyZ, Pressed: true})
	w.Step()
	assert.Equal(t, StateMenu, w.State())
	assert.Zero(t, w.count(func(s *ecs.Storage) int { return s.Len() }))
}
