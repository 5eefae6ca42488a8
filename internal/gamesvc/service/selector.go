package service

// pickUnused picks uniformly among ids that are not in used.
// intn must return a value in [0, n).
func pickUnused(intn func(n int) int, ids, used []int64) (int64, error) {
	skip := make(map[int64]struct{}, len(used))
	for _, id := range used {
		skip[id] = struct{}{}
	}

	candidates := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := skip[id]; !ok {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return 0, ErrExhausted
	}
	return candidates[intn(len(candidates))], nil
}
