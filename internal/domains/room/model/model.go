package model

import (
	"hotel/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID            = "id"
	FieldName          = "name"
	FieldRoomType      = "room_type"
	FieldDescription   = "description"
	FieldPricePerNight = "price_per_night"
	FieldImage         = "image"
	FieldActive        = "active"
)

type RoomType string

const (
	RoomTypeStandard RoomType = "standard"
	RoomTypeDeluxe   RoomType = "deluxe"
	RoomTypeSuite    RoomType = "suite"
)

func (t RoomType) Valid() bool {
	switch t {
	case RoomTypeStandard, RoomTypeDeluxe, RoomTypeSuite:
		return true
	}

	return false
}

type Room struct {
	ID            string          `db:"id"`
	Name          string          `db:"name"`
	RoomType      RoomType        `db:"room_type"`
	Description   string          `db:"description"`
	PricePerNight decimal.Decimal `db:"price_per_night"`
	Image         string          `db:"image"`
	Active        bool            `db:"active"`
	model.Metadata
}
