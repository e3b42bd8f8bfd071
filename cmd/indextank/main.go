// Copyright 2021 The indextank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/gogama/indextank/internal/command"
)

func main() {
	os.Exit(command.Main(os.Args))
}
