// Testify-backed mocks for the storage interfaces, used by service and
// feed tests.

package storage

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/havenhouse/hms/internal/model"
)

type mockConstructorTestingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockApplicationStorage is a testify mock of ApplicationStorage.
type MockApplicationStorage struct {
	mock.Mock
}

func NewMockApplicationStorage(t mockConstructorTestingT) *MockApplicationStorage {
	m := &MockApplicationStorage{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockApplicationStorage) Save(ctx context.Context, app *model.Application) error {
	ret := m.Called(ctx, app)
	return ret.Error(0)
}

func (m *MockApplicationStorage) FindAll(ctx context.Context) ([]model.Application, error) {
	ret := m.Called(ctx)
	var apps []model.Application
	if v := ret.Get(0); v != nil {
		apps = v.([]model.Application)
	}
	return apps, ret.Error(1)
}

func (m *MockApplicationStorage) FindByID(ctx context.Context, id string) (model.Application, error) {
	ret := m.Called(ctx, id)
	return ret.Get(0).(model.Application), ret.Error(1)
}

func (m *MockApplicationStorage) Review(ctx context.Context, id, status, reviewer, notes string, reviewedAt time.Time) error {
	ret := m.Called(ctx, id, status, reviewer, notes, reviewedAt)
	return ret.Error(0)
}

func (m *MockApplicationStorage) Ping(ctx context.Context) error {
	ret := m.Called(ctx)
	return ret.Error(0)
}

// MockResidentStorage is a testify mock of ResidentStorage.
type MockResidentStorage struct {
	mock.Mock
}

func NewMockResidentStorage(t mockConstructorTestingT) *MockResidentStorage {
	m := &MockResidentStorage{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockResidentStorage) Save(ctx context.Context, res *model.Resident) error {
	ret := m.Called(ctx, res)
	return ret.Error(0)
}

func (m *MockResidentStorage) FindAll(ctx context.Context) ([]model.Resident, error) {
	ret := m.Called(ctx)
	var residents []model.Resident
	if v := ret.Get(0); v != nil {
		residents = v.([]model.Resident)
	}
	return residents, ret.Error(1)
}

func (m *MockResidentStorage) FindByID(ctx context.Context, id string) (model.Resident, error) {
	ret := m.Called(ctx, id)
	return ret.Get(0).(model.Resident), ret.Error(1)
}

func (m *MockResidentStorage) FindActiveByPhone(ctx context.Context, phone string) (model.Resident, error) {
	ret := m.Called(ctx, phone)
	return ret.Get(0).(model.Resident), ret.Error(1)
}

func (m *MockResidentStorage) Update(ctx context.Context, res *model.Resident) error {
	ret := m.Called(ctx, res)
	return ret.Error(0)
}

func (m *MockResidentStorage) MoveOut(ctx context.Context, id string, moveOutDate time.Time) error {
	ret := m.Called(ctx, id, moveOutDate)
	return ret.Error(0)
}

// MockPaymentStorage is a testify mock of PaymentStorage.
type MockPaymentStorage struct {
	mock.Mock
}

func NewMockPaymentStorage(t mockConstructorTestingT) *MockPaymentStorage {
	m := &MockPaymentStorage{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPaymentStorage) Save(ctx context.Context, p *model.Payment) error {
	ret := m.Called(ctx, p)
	return ret.Error(0)
}

func (m *MockPaymentStorage) FindAll(ctx context.Context) ([]model.Payment, error) {
	ret := m.Called(ctx)
	var payments []model.Payment
	if v := ret.Get(0); v != nil {
		payments = v.([]model.Payment)
	}
	return payments, ret.Error(1)
}

func (m *MockPaymentStorage) FindByID(ctx context.Context, id string) (model.Payment, error) {
	ret := m.Called(ctx, id)
	return ret.Get(0).(model.Payment), ret.Error(1)
}

func (m *MockPaymentStorage) FindByResident(ctx context.Context, residentID string) ([]model.Payment, error) {
	ret := m.Called(ctx, residentID)
	var payments []model.Payment
	if v := ret.Get(0); v != nil {
		payments = v.([]model.Payment)
	}
	return payments, ret.Error(1)
}

func (m *MockPaymentStorage) UpdateStatus(ctx context.Context, id, status string, paidDate *time.Time, method string) error {
	ret := m.Called(ctx, id, status, paidDate, method)
	return ret.Error(0)
}

// MockNotificationStorage is a testify mock of NotificationStorage.
type MockNotificationStorage struct {
	mock.Mock
}

func NewMockNotificationStorage(t mockConstructorTestingT) *MockNotificationStorage {
	m := &MockNotificationStorage{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockNotificationStorage) FindRecent(ctx context.Context, limit int) ([]model.Notification, error) {
	ret := m.Called(ctx, limit)
	var notifs []model.Notification
	if v := ret.Get(0); v != nil {
		notifs = v.([]model.Notification)
	}
	return notifs, ret.Error(1)
}

func (m *MockNotificationStorage) MarkRead(ctx context.Context, id string) error {
	ret := m.Called(ctx, id)
	return ret.Error(0)
}

func (m *MockNotificationStorage) MarkManyRead(ctx context.Context, ids []string) error {
	ret := m.Called(ctx, ids)
	return ret.Error(0)
}

func (m *MockNotificationStorage) Delete(ctx context.Context, id string) error {
	ret := m.Called(ctx, id)
	return ret.Error(0)
}

// MockStaffStorage is a testify mock of StaffStorage.
type MockStaffStorage struct {
	mock.Mock
}

func NewMockStaffStorage(t mockConstructorTestingT) *MockStaffStorage {
	m := &MockStaffStorage{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockStaffStorage) FindActiveByEmail(ctx context.Context, email string) (model.StaffUser, error) {
	ret := m.Called(ctx, email)
	return ret.Get(0).(model.StaffUser), ret.Error(1)
}

func (m *MockStaffStorage) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	ret := m.Called(ctx, id, at)
	return ret.Error(0)
}
