package engine

// SpawnRobotsInBase creates the requested robots, handing out base positions
// round-robin. Once every position is used the index wraps to zero, so
// several robots may share a cell. Ids follow creation order.
func SpawnRobotsInBase(positions []Position, counts []KindCount, obs Observer) []*Robot {
	if obs == nil {
		obs = NopObserver{}
	}
	if len(positions) == 0 {
		return nil
	}

	var robots []*Robot
	next := 0
	for _, kc := range counts {
		for i := 0; i < kc.Count; i++ {
			if next >= len(positions) {
				next = 0
			}
			r := NewRobot(len(robots), kc.Kind, positions[next])
			robots = append(robots, r)
			obs.RobotSpawned(r.ID, r.Kind, r.Pos)
			next++
		}
	}
	return robots
}
