package dto

import (
	"mime/multipart"

	"hotel/internal/domains/room/model"
	"hotel/shared"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateRoomRequest struct {
	Name          string                `json:"name"            validate:"required,max=100"`
	RoomType      string                `json:"room_type"       validate:"required,oneof=standard deluxe suite"`
	Description   string                `json:"description"     validate:"omitempty,max=2000"`
	PricePerNight string                `json:"price_per_night" validate:"required,decimal_money"`
	Image         *multipart.FileHeader `json:"image"           validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile     multipart.File        `json:"-"`
	Active        *bool                 `json:"active"          validate:"omitempty"`
}

func (c *CreateRoomRequest) ToModel(actor string, imageURL string) model.Room {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	price, _ := decimal.NewFromString(c.PricePerNight)

	return model.Room{
		ID:            uuid.NewString(),
		Name:          c.Name,
		RoomType:      model.RoomType(c.RoomType),
		Description:   c.Description,
		PricePerNight: price.Round(2),
		Image:         imageURL,
		Active:        active,
		Metadata:      gModel.NewMetadata(timezone.Now(), actor),
	}
}

type UpdateRoomRequest struct {
	Name          string                `db:"name"        json:"name"            validate:"omitempty,max=100"`
	RoomType      string                `db:"room_type"   json:"room_type"       validate:"omitempty,oneof=standard deluxe suite"`
	Description   string                `db:"description" json:"description"     validate:"omitempty,max=2000"`
	PricePerNight string                `json:"price_per_night"                  validate:"omitempty,decimal_money"`
	Image         *multipart.FileHeader `json:"image"                            validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile     multipart.File        `json:"-"`
	Active        *bool                 `db:"active"      json:"active"          validate:"omitempty"`
}

type RoomResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	RoomType      string          `json:"room_type"`
	Description   string          `json:"description"`
	PricePerNight decimal.Decimal `json:"price_per_night" swaggertype:"string"`
	Image         string          `json:"image"`
	Active        bool            `json:"active"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Name = model.Name
	r.RoomType = string(model.RoomType)
	r.Description = model.Description
	r.PricePerNight = model.PricePerNight
	r.Image = model.Image
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
