package domain

import "sort"

// SortQueue orders waiting tickets for service: priority tickets strictly
// ahead of normal ones, each group FIFO by issue time. A priority ticket
// issued last still jumps ahead of every normal ticket. The sort is stable
// so equal timestamps keep their input order.
func SortQueue(tickets []*Ticket) {
	sort.SliceStable(tickets, func(i, j int) bool {
		a, b := tickets[i], tickets[j]
		if a.Type != b.Type {
			return a.Type == TypePriority
		}
		return a.IssuedAt.Before(b.IssuedAt)
	})
}

// PositionOf returns the 1-based rank of ticketID within an already ordered
// queue, or 0 if the ticket is not present.
func PositionOf(queue []*Ticket, ticketID int64) int {
	for i, t := range queue {
		if t.ID == ticketID {
			return i + 1
		}
	}
	return 0
}
