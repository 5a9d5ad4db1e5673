package domain

// ServiceCategory is a counter/department tickets are issued for
// (registrar, cashier, library desk...).
type ServiceCategory struct {
	ID                int64
	Name              string
	Description       string
	AvgServiceMinutes int
	DisplayOrder      int
	Active            bool
}

// EstimatedWaitMinutes gives a rough wait estimate for a newly issued ticket:
// pending tickets times the category's average attendance duration.
func (c ServiceCategory) EstimatedWaitMinutes(pending int) int {
	if pending < 0 {
		return 0
	}
	return pending * c.AvgServiceMinutes
}
