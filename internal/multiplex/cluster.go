package multiplex

import "math"

// ClusterOptions parameterizes the grid-based 2-D clustering pass (§4.2
// step 3): rtTypical is the characteristic elution width used as the
// grid's RT cell size; rtMin discards any cluster whose RT span is
// shorter; mzGridSize is the grid's m/z cell size.
type ClusterOptions struct {
	RTTypical  float64
	RTMin      float64
	MZGridSize float64
}

// Cluster2D groups a FilteredExperiment's peaks by adjacency on a grid
// over (RT, m/z), per §4.2 step 3. Returns a map from cluster id to
// Cluster; clusters shorter in RT than RTMin are discarded.
func Cluster2D(fe FilteredExperiment, opts ClusterOptions) map[int]Cluster {
	if opts.RTTypical <= 0 {
		opts.RTTypical = 1
	}
	if opts.MZGridSize <= 0 {
		opts.MZGridSize = 1
	}

	type cell struct{ rt, mz int }
	cellOf := func(p FilteredPeak) cell {
		return cell{
			rt: int(math.Floor(p.RT / opts.RTTypical)),
			mz: int(math.Floor(p.MZ / opts.MZGridSize)),
		}
	}

	cellPoints := map[cell][]int{}
	for i, p := range fe.Peaks {
		c := cellOf(p)
		cellPoints[c] = append(cellPoints[c], i)
	}

	visited := make([]bool, len(fe.Peaks))
	clusters := map[int]Cluster{}
	nextID := 0

	neighbors := func(c cell) []cell {
		var out []cell
		for dr := -1; dr <= 1; dr++ {
			for dm := -1; dm <= 1; dm++ {
				out = append(out, cell{c.rt + dr, c.mz + dm})
			}
		}
		return out
	}

	for i := range fe.Peaks {
		if visited[i] {
			continue
		}
		// BFS flood fill over occupied adjacent grid cells starting from
		// point i's cell.
		var members []int
		queue := []int{i}
		visited[i] = true
		seenCells := map[cell]bool{}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			members = append(members, cur)
			c := cellOf(fe.Peaks[cur])
			for _, nb := range neighbors(c) {
				if seenCells[nb] {
					continue
				}
				seenCells[nb] = true
				for _, j := range cellPoints[nb] {
					if !visited[j] {
						visited[j] = true
						queue = append(queue, j)
					}
				}
			}
		}

		if len(members) == 0 {
			continue
		}
		minRT, maxRT := rtSpan(fe, members)
		if maxRT-minRT < opts.RTMin {
			continue
		}
		clusters[nextID] = Cluster{ID: nextID, Points: members}
		nextID++
	}
	return clusters
}

func rtSpan(fe FilteredExperiment, members []int) (min, max float64) {
	min, max = fe.Peaks[members[0]].RT, fe.Peaks[members[0]].RT
	for _, idx := range members {
		rt := fe.Peaks[idx].RT
		if rt < min {
			min = rt
		}
		if rt > max {
			max = rt
		}
	}
	return min, max
}
