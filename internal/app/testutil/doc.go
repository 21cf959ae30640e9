// Package testutil provides shared test doubles and fixtures for the relay.
//
// Mocks are built on testify's mock package and follow its conventions:
//
//	recognizer := testutil.NewMockRecognizer(t)
//	recognizer.On("Recognize", mock.Anything, mock.Anything).Return(testutil.GoogleResult("hello"), nil)
//
// Constructors register the mock with t so unexpected calls fail the test.
// Call AssertExpectations when the test also needs to check that expected calls happened.
package testutil
