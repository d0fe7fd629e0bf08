package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Modifier struct {
	ID    primitive.ObjectID `bson:"_id" json:"_id"`
	Name  string             `bson:"name" json:"name"`
	Price float64            `bson:"price" json:"price"`
	On    bool               `bson:"on" json:"on"`
}

type Item struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Img         string             `bson:"img" json:"img"`
	BasePrice   float64            `bson:"baseprice" json:"baseprice"`
	Description string             `bson:"description" json:"description"`
	Time        int                `bson:"time" json:"time"`
	Available   bool               `bson:"available" json:"available"`
	Modifiers   []Modifier         `bson:"modifiers" json:"modifiers"`
}

type Category struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Items       []Item             `bson:"items" json:"items"`
}

// Menu holds every category of one shop. There is exactly one per tenant.
type Menu struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	UserID     string             `bson:"userId" json:"userId"`
	Categories []Category         `bson:"categories" json:"categories"`
}

// ItemFields is the editable part of an item as submitted by the menu editor.
type ItemFields struct {
	Name        string
	BasePrice   float64
	Description string
	Time        int
	Modifiers   []Modifier
}

// ItemUpdate is a selective update of one item. Img is nil when no new image was uploaded,
// Modifiers is nil when the form did not carry the field.
type ItemUpdate struct {
	Name        string
	BasePrice   float64
	Description string
	Time        int
	Img         *string
	Modifiers   []Modifier
}

func NewCategory(name, description string) Category {
	return Category{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Description: description,
		Items:       []Item{},
	}
}

func NewItem(f ItemFields, img string) Item {
	return Item{
		ID:          primitive.NewObjectID(),
		Name:        f.Name,
		Img:         img,
		BasePrice:   f.BasePrice,
		Description: f.Description,
		Time:        f.Time,
		Available:   true,
		Modifiers:   WithModifierIDs(f.Modifiers),
	}
}

// WithModifierIDs assigns fresh ids to modifiers that arrive without one.
func WithModifierIDs(mods []Modifier) []Modifier {
	out := make([]Modifier, len(mods))
	for i, m := range mods {
		if m.ID.IsZero() {
			m.ID = primitive.NewObjectID()
		}
		out[i] = m
	}
	return out
}

// FindItem returns the item addressed by the category/item pair.
func (m *Menu) FindItem(categoryID, itemID primitive.ObjectID) (*Item, bool) {
	for ci := range m.Categories {
		if m.Categories[ci].ID != categoryID {
			continue
		}
		for ii := range m.Categories[ci].Items {
			if m.Categories[ci].Items[ii].ID == itemID {
				return &m.Categories[ci].Items[ii], true
			}
		}
	}
	return nil, false
}
