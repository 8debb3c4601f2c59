package dag

// Aggregate merges node results into one id-keyed map: success nodes
// contribute their payload, failed nodes an ErrorMarker. It never fails and
// covers exactly the attempted nodes, not every node declared in the graph.
func Aggregate(results []NodeResult) map[string]any {
	out := make(map[string]any, len(results))
	for _, r := range results {
		if r.Status == StatusSuccess {
			out[r.NodeID] = r.Output
		} else {
			out[r.NodeID] = ErrorMarker{Status: r.Status, Error: r.Error}
		}
	}
	return out
}
