// Package mocks holds testify mocks of the service interfaces consumed by the HTTP layer.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/domain/model"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/service"
)

var (
	_ service.CoverLookup    = (*MockCoverLookup)(nil)
	_ service.ImageFetcher   = (*MockImageFetcher)(nil)
	_ service.DownloadLinks  = (*MockDownloadLinks)(nil)
	_ service.BookSearcher   = (*MockBookSearcher)(nil)
	_ service.MetadataLookup = (*MockMetadataLookup)(nil)
	_ service.ActivityLog    = (*MockActivityLog)(nil)
)

type MockCoverLookup struct {
	mock.Mock
}

func NewMockCoverLookup(t mock.TestingT) *MockCoverLookup {
	m := &MockCoverLookup{}
	m.Test(t)
	return m
}

func (m *MockCoverLookup) Lookup(ctx context.Context, q model.CoverQuery) (model.CoverResult, error) {
	args := m.Called(ctx, q)
	res, _ := args.Get(0).(model.CoverResult)
	return res, args.Error(1)
}

func (m *MockCoverLookup) Invalidate(q model.CoverQuery) {
	m.Called(q)
}

type MockImageFetcher struct {
	mock.Mock
}

func NewMockImageFetcher(t mock.TestingT) *MockImageFetcher {
	m := &MockImageFetcher{}
	m.Test(t)
	return m
}

func (m *MockImageFetcher) Fetch(ctx context.Context, target string) (*service.Image, error) {
	args := m.Called(ctx, target)
	img, _ := args.Get(0).(*service.Image)
	return img, args.Error(1)
}

type MockDownloadLinks struct {
	mock.Mock
}

func NewMockDownloadLinks(t mock.TestingT) *MockDownloadLinks {
	m := &MockDownloadLinks{}
	m.Test(t)
	return m
}

func (m *MockDownloadLinks) Resolve(ctx context.Context, md5 string) (string, error) {
	args := m.Called(ctx, md5)
	return args.String(0), args.Error(1)
}

type MockBookSearcher struct {
	mock.Mock
}

func NewMockBookSearcher(t mock.TestingT) *MockBookSearcher {
	m := &MockBookSearcher{}
	m.Test(t)
	return m
}

func (m *MockBookSearcher) Search(ctx context.Context, q model.SearchQuery) (model.SearchResult, error) {
	args := m.Called(ctx, q)
	res, _ := args.Get(0).(model.SearchResult)
	return res, args.Error(1)
}

type MockMetadataLookup struct {
	mock.Mock
}

func NewMockMetadataLookup(t mock.TestingT) *MockMetadataLookup {
	m := &MockMetadataLookup{}
	m.Test(t)
	return m
}

func (m *MockMetadataLookup) Lookup(ctx context.Context, md5 string) (model.Book, error) {
	args := m.Called(ctx, md5)
	book, _ := args.Get(0).(model.Book)
	return book, args.Error(1)
}

type MockActivityLog struct {
	mock.Mock
}

func NewMockActivityLog(t mock.TestingT) *MockActivityLog {
	m := &MockActivityLog{}
	m.Test(t)
	return m
}

func (m *MockActivityLog) Record(ctx context.Context, entry *model.LogEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockActivityLog) RecordBatch(ctx context.Context, entries []*model.LogEntry) error {
	return m.Called(ctx, entries).Error(0)
}

func (m *MockActivityLog) Recent(ctx context.Context, opts model.LogQueryOptions) (service.ActivityPage, error) {
	args := m.Called(ctx, opts)
	page, _ := args.Get(0).(service.ActivityPage)
	return page, args.Error(1)
}
