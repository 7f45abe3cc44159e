// Licensed to the Apache Software Foundation (ASF) under one or more
// contributor license agreements.  See the NOTICE file distributed with
// this work for additional information regarding copyright ownership.
// The ASF licenses this file to You under the Apache License, Version 2.0
// (the "License"); you may not use this file except in compliance with
// the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build linux
// +build linux

package cgroups

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// CGroup is one controller directory, e.g. /sys/fs/cgroup/memory/app.
type CGroup struct {
	path string
}

func NewCGroup(path string) *CGroup {
	return &CGroup{path: path}
}

func (cg *CGroup) Path() string {
	return cg.path
}

// ParamPath returns the file holding param inside the cgroup.
func (cg *CGroup) ParamPath(param string) string {
	return filepath.Join(cg.path, param)
}

func (cg *CGroup) readFirstLine(param string) (string, error) {
	f, err := os.Open(cg.ParamPath(param))
	if err != nil {
		return "", err
	}
	defer f.Close() // nolint: errcheck

	scanner := bufio.NewScanner(f)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.ErrUnexpectedEOF
}

func (cg *CGroup) readUint(param string) (uint64, error) {
	text, err := cg.readFirstLine(param)
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(text, 10, 64)
}
