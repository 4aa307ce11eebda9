package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InputType enumerates the ways an interview question can be answered.
type InputType string

const (
	InputText         InputType = "text"
	InputNumber       InputType = "number"
	InputSingleSelect InputType = "single_select"
	InputMultiSelect  InputType = "multi_select"
	InputYesNo        InputType = "yes_no"
	InputRange        InputType = "range"
)

// QuestionOption is one selectable value for a select-type question.
type QuestionOption struct {
	Value     string `bson:"value" json:"value"`
	Label     string `bson:"label" json:"label"`
	SortOrder int    `bson:"sortOrder" json:"sortOrder"`
	IsEnabled bool   `bson:"isEnabled" json:"isEnabled"`
}

// RangeBounds holds min/max for range questions.
type RangeBounds struct {
	Min int `bson:"min" json:"min"`
	Max int `bson:"max" json:"max"`
}

// Question is one interview question definition. Questions are created and
// edited by administrators; they are never deleted, only disabled, so stored
// Responses keep referring to a real definition.
type Question struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Key        string             `bson:"key" json:"key"` // Unique (enforced by index)
	Label      string             `bson:"label" json:"label"`
	HelpText   string             `bson:"helpText,omitempty" json:"helpText,omitempty"`
	InputType  InputType          `bson:"inputType" json:"inputType"`
	Options    []QuestionOption   `bson:"options,omitempty" json:"options,omitempty"` // For select types
	Range      *RangeBounds       `bson:"range,omitempty" json:"range,omitempty"`     // For range type
	IsRequired bool               `bson:"isRequired" json:"isRequired"`
	SortOrder  int                `bson:"sortOrder" json:"sortOrder"`
	IsEnabled  bool               `bson:"isEnabled" json:"isEnabled"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// EnabledOptionValues returns the set of option values a submission may use.
func (q *Question) EnabledOptionValues() map[string]bool {
	if len(q.Options) == 0 {
		return nil
	}
	values := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		if o.IsEnabled {
			values[o.Value] = true
		}
	}
	return values
}
