package model

import "time"

// Seat types mirror the kinds of bookable units in the office:
// open-floor workstations, private cabins and meeting rooms.
const (
    SeatTypeWorkstation = "WORKSTATION"
    SeatTypeCabin       = "CABIN"
    SeatTypeMeetingRoom = "MEETING_ROOM"
)

// Seat describes a bookable unit of office space.  Seats are uniquely
// identified by their human-readable code (e.g. "WS-1A", "CEO-1").
// The IsAvailable flag is a cached value kept in sync by the settlement
// path; the authoritative signal is whether a PAID booking references
// the seat.
//
// Fields:
//  ID          – primary key identifier.
//  Code        – unique human-readable seat code.
//  SeatType    – WORKSTATION, CABIN or MEETING_ROOM.
//  Section     – area of the office the seat sits in.
//  Price       – price charged when the seat is settled.
//  IsAvailable – cached availability flag, flipped only at settlement.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Seat struct {
    ID          uint64    // seats.id
    Code        string    // seats.code
    SeatType    string    // seats.seat_type
    Section     string    // seats.section
    Price       float64   // seats.price
    IsAvailable bool      // seats.is_available
    CreatedAt   time.Time // seats.created_at
    UpdatedAt   time.Time // seats.updated_at
}
