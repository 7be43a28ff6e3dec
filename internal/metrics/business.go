package metrics

// IncrementCommentCreated increments the comment creation counter (replies included)
func (m *Metrics) IncrementCommentCreated() {
	m.safeExecute("IncrementCommentCreated", func() {
		m.CommentsCreatedTotal.Inc()
	})
}

// IncrementCommentEdited increments the comment edit counter
func (m *Metrics) IncrementCommentEdited() {
	m.safeExecute("IncrementCommentEdited", func() {
		m.CommentsEditedTotal.Inc()
	})
}

// IncrementCommentDeleted increments the soft delete counter
func (m *Metrics) IncrementCommentDeleted() {
	m.safeExecute("IncrementCommentDeleted", func() {
		m.CommentsDeletedTotal.Inc()
	})
}

// IncrementCommentRestored increments the restore counter
func (m *Metrics) IncrementCommentRestored() {
	m.safeExecute("IncrementCommentRestored", func() {
		m.CommentsRestoredTotal.Inc()
	})
}

// RecordRefresh records the outcome of a list refresh
func (m *Metrics) RecordRefresh(mode string, err error) {
	m.safeExecute("RecordRefresh", func() {
		result := "success"
		if err != nil {
			result = "error"
		}
		m.RefreshTotal.WithLabelValues(mode, result).Inc()
	})
}

// IncrementStaleResponse counts a list response dropped in favour of a newer request
func (m *Metrics) IncrementStaleResponse() {
	m.safeExecute("IncrementStaleResponse", func() {
		m.StaleResponsesDiscarded.Inc()
	})
}

// IncrementLocalRejection counts an operation refused without a network call
func (m *Metrics) IncrementLocalRejection(reason string) {
	m.safeExecute("IncrementLocalRejection", func() {
		m.LocalRejectionsTotal.WithLabelValues(reason).Inc()
	})
}

// RecordCacheLookup records a list cache hit or miss
func (m *Metrics) RecordCacheLookup(hit bool) {
	m.safeExecute("RecordCacheLookup", func() {
		result := "miss"
		if hit {
			result = "hit"
		}
		m.CacheLookupsTotal.WithLabelValues(result).Inc()
	})
}
