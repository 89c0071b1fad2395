package model

type Doctor struct {
	ID        string `json:"_id,omitempty" bson:"_id,omitempty"`
	Name      string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email     string `json:"email" bson:"email" validate:"required,email,max=254"`
	Specialty string `json:"specialty" bson:"specialty" validate:"required,min=2,max=100"`
	Img       string `json:"img,omitempty" bson:"img,omitempty" validate:"omitempty,url,max=2048"`
}
