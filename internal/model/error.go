package model

import "errors"

var ErrorPostNotFound = errors.New("post not found")
var ErrorInvalidTransition = errors.New("invalid status transition")
var ErrorMalformedToken = errors.New("malformed callback token")
var ErrorProviderFailure = errors.New("provider call failed")
var ErrorUserNotFound = errors.New("user not found")
var ErrorInvalidUsernameOrPassword = errors.New("invalid username or password")
var ErrorCredentialNotFound = errors.New("credential not found")
