package model

// Service is a bookable treatment. Slots is ordered reference data and is
// never mutated by availability computation.
type Service struct {
	ID    string   `json:"_id,omitempty" bson:"_id,omitempty"`
	Name  string   `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Slots []string `json:"slots" bson:"slots" validate:"required,min=1,max=96,dive,required,max=50"`
	Price float64  `json:"price" bson:"price" validate:"gte=0"`
}

// Clone returns a copy that shares no slot storage with s.
func (s Service) Clone() Service {
	c := s
	c.Slots = append([]string(nil), s.Slots...)
	if c.Slots == nil {
		c.Slots = []string{}
	}
	return c
}

// ServiceName is the projection served by GET /api/services?fields=name.
type ServiceName struct {
	ID   string `json:"_id,omitempty" bson:"_id,omitempty"`
	Name string `json:"name" bson:"name"`
}
