// Package testutil builds request fixtures for the integration tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"railbook/pkg/model"
)

var sequence atomic.Int64

func init() {
	// Train numbers and user names must not collide with earlier runs
	// against the same database.
	sequence.Store(time.Now().UnixMilli() % 1_000_000_000)
}

func Next() int64 {
	return sequence.Add(1)
}

func UniqueUserName(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, Next())
}

func Registration(userName, password, role string) *model.Registration {
	return &model.Registration{
		UserName: userName,
		Email:    userName + "@example.com",
		Password: password,
		Role:     role,
	}
}

type TrainBuilder struct {
	train model.TrainSchedule
}

func NewTrainBuilder() *TrainBuilder {
	return &TrainBuilder{
		train: model.TrainSchedule{
			TrainNumber:    Next(),
			Source:         "NYC",
			Destination:    "BOS",
			ScheduleDate:   time.Now().AddDate(0, 0, 7).Format(model.DateLayout),
			SeatsAvailable: 5,
		},
	}
}

func (b *TrainBuilder) WithRoute(source, destination string) *TrainBuilder {
	b.train.Source = source
	b.train.Destination = destination
	return b
}

func (b *TrainBuilder) WithSeats(seats int) *TrainBuilder {
	b.train.SeatsAvailable = seats
	return b
}

func (b *TrainBuilder) Build() *model.TrainSchedule {
	train := b.train
	return &train
}
