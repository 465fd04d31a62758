package topolib

import "github.com/stretchr/testify/mock"

type DatasetMock struct {
	mock.Mock
}

func (m *DatasetMock) Name() string {
	return m.Called().String(0)
}

func (m *DatasetMock) Supports(family Family) bool {
	return m.Called(family).Bool(0)
}

func (m *DatasetMock) Lookup(addr Address) (Fields, error) {
	args := m.Called(addr)

	fields, _ := args.Get(0).(Fields)

	return fields, args.Error(1)
}

type LoggerMock struct {
	mock.Mock
}

func (m *LoggerMock) LookupError(addr Address, name string, err error) {
	m.Called(addr, name, err)
}

func (m *LoggerMock) LoadInfo(info DatasetInfo) {
	m.Called(info)
}

func (m *LoggerMock) LoadError(name string, err error) {
	m.Called(name, err)
}
