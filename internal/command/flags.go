// Copyright 2021 The indextank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package command

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// stringMapFlag collects repeated name=value flags.
type stringMapFlag map[string]string

func (m stringMapFlag) String() string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + m[k]
	}
	return strings.Join(parts, ",")
}

func (m stringMapFlag) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return fmt.Errorf("expected name=value, got %q", s)
	}
	m[k] = v
	return nil
}

// variableFlag collects repeated index=value scoring variable flags.
type variableFlag map[int]float64

func (m variableFlag) String() string {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = strconv.Itoa(k) + "=" + strconv.FormatFloat(m[k], 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func (m variableFlag) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("expected index=value, got %q", s)
	}
	i, err := strconv.Atoi(k)
	if err != nil || i < 0 {
		return fmt.Errorf("variable index must be a non-negative integer, got %q", k)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("variable value must be a number, got %q", v)
	}
	m[i] = f
	return nil
}
