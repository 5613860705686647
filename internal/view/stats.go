package view

import (
	"bookingtracker/internal"
	"bookingtracker/internal/clock"
)

type DashboardStats struct {
	TotalBookings    int     `json:"totalBookings"`
	UpcomingBookings int     `json:"upcomingBookings"`
	TotalRevenue     float64 `json:"totalRevenue"`
	PaidRevenue      float64 `json:"paidRevenue"`
	PendingRevenue   float64 `json:"pendingRevenue"`
	OccupancyRate    float64 `json:"occupancyRate"`
	AverageStay      float64 `json:"averageStay"`
}

// Stats summarises the whole collection; list filters do not apply.
//
// OccupancyRate is a coarse proxy: the share of distinct room types (the
// empty room type counts as one) that have a booking in progress today. It
// says nothing about how many individual rooms are taken.
func Stats(records []internal.Booking, today string) DashboardStats {
	st := DashboardStats{TotalBookings: len(records)}

	stayDays, stays := 0, 0
	allRooms := map[string]struct{}{}
	occupied := map[string]struct{}{}

	for _, b := range records {
		if isUpcoming(b, today) {
			st.UpcomingBookings++
		}
		st.TotalRevenue += b.TotalAmount
		st.PaidRevenue += b.AdvancePayment + b.PaidAmount

		if b.CheckInDate != "" && b.CheckOutDate != "" {
			if days, ok := clock.DaysBetween(b.CheckInDate, b.CheckOutDate); ok && days > 0 {
				stayDays += days
				stays++
			}
		}

		allRooms[b.RoomType] = struct{}{}
		if isOccupied(b, today) {
			occupied[b.RoomType] = struct{}{}
		}
	}

	st.PendingRevenue = st.TotalRevenue - st.PaidRevenue
	if stays > 0 {
		st.AverageStay = float64(stayDays) / float64(stays)
	}
	if len(allRooms) > 0 {
		st.OccupancyRate = float64(len(occupied)) / float64(len(allRooms)) * 100
	}
	return st
}

func isOccupied(b internal.Booking, today string) bool {
	return b.Status != internal.StatusCancelled &&
		b.CheckInDate <= today &&
		(b.CheckOutDate == "" || b.CheckOutDate >= today)
}
