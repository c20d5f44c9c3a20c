package service

import (
	"sort"
	"time"

	"github.com/iliyamo/party-rental/internal/model"
)

// GroupOrders groups lines by customer and event date. Each order takes the
// earliest return date of its lines and is overdue when today is past it.
// Orders are sorted by return date, then event date, then customer.
func GroupOrders(lines []model.ReservationLine, today time.Time) []model.Order {
	byKey := make(map[string]*model.Order)
	var keys []string
	for _, l := range lines {
		key := model.OrderKey(l.CustomerID, l.EventDate)
		o, ok := byKey[key]
		if !ok {
			o = &model.Order{
				Key:        key,
				CustomerID: l.CustomerID,
				EventDate:  model.DateOnly(l.EventDate),
				ReturnDate: model.DateOnly(l.ReturnDate),
			}
			byKey[key] = o
			keys = append(keys, key)
		}
		if o.CustomerName == "" {
			o.CustomerName = l.CustomerName
		}
		if rd := model.DateOnly(l.ReturnDate); rd.Before(o.ReturnDate) {
			o.ReturnDate = rd
		}
		o.TotalQuantity += l.Quantity
		o.Lines = append(o.Lines, l)
	}

	orders := make([]model.Order, 0, len(keys))
	for _, k := range keys {
		o := byKey[k]
		o.Overdue = hasOpenOverdue(o.Lines, today)
		orders = append(orders, *o)
	}
	sort.SliceStable(orders, func(i, j int) bool {
		a, b := orders[i], orders[j]
		if !a.ReturnDate.Equal(b.ReturnDate) {
			return a.ReturnDate.Before(b.ReturnDate)
		}
		if !a.EventDate.Equal(b.EventDate) {
			return a.EventDate.Before(b.EventDate)
		}
		return a.CustomerID < b.CustomerID
	})
	return orders
}

func hasOpenOverdue(lines []model.ReservationLine, today time.Time) bool {
	for _, l := range lines {
		if l.Open() && model.IsOverdue(today, l.ReturnDate) {
			return true
		}
	}
	return false
}
