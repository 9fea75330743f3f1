package model

import "errors"

// ErrRecordNotFound is returned by the persistence layer when a record key
// does not exist, including records deleted while an analysis pass was still
// running against them.
var ErrRecordNotFound = errors.New("technology record not found")
