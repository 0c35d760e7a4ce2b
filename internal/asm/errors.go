package asm

import "errors"

var errMemoryOverflow = errors.New("program exceeds available memory")
