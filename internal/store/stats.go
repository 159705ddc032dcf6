package store

// PartitionStats is one partition's contribution to a Stats snapshot.
type PartitionStats struct {
	Size    int64
	Inserts uint64
	Removes uint64
	Lookups uint64
}

// Stats aggregates coordinator-wide, per-partition, routing and redirect
// statistics, matching the shape of
// original_source/c_src/include/parallel_avl.h's ParallelAVLStats.
type Stats struct {
	NumPartitions int
	TotalSize     int
	TotalOps      uint64
	Partitions    []PartitionStats

	BalanceScore       float64
	HasHotspot         bool
	SuspiciousPatterns uint64
	BlockedRedirects   uint64

	RedirectIndexSize int
	RedirectHits      uint64
	RedirectHitRate   float64
}

// Stats returns a point-in-time snapshot of the coordinator's state.
func (c *Coordinator[V]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	perPartition := make([]PartitionStats, len(c.partitions))
	totalSize := 0
	for i, p := range c.partitions {
		s := p.GetStats()
		perPartition[i] = PartitionStats{
			Size:    s.Size,
			Inserts: s.Inserts,
			Removes: s.Removes,
			Lookups: s.Lookups,
		}
		totalSize += p.Size()
	}

	routerStats := c.router.Stats()
	redirectStats := c.redirects.Stats()

	return Stats{
		NumPartitions:      len(c.partitions),
		TotalSize:          totalSize,
		TotalOps:           c.totalOps.Load(),
		Partitions:         perPartition,
		BalanceScore:       routerStats.BalanceScore,
		HasHotspot:         routerStats.HasHotspot,
		SuspiciousPatterns: routerStats.SuspiciousPatterns,
		BlockedRedirects:   routerStats.BlockedRedirects,
		RedirectIndexSize:  redirectStats.IndexSize,
		RedirectHits:       c.redirectHits.Load(),
		RedirectHitRate:    redirectStats.HitRate,
	}
}
