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
	"fmt"
	"os"
	"strconv"
	"strings"
)

type cgroupSubsysFormatInvalidError struct {
	line string
}

func (err cgroupSubsysFormatInvalidError) Error() string {
	return fmt.Sprintf("invalid format for CGroupSubsys: %q", err.line)
}

// CGroupSubsys is one `hierarchy-ID:controller-list:cgroup-path` line of
// `/proc/$PID/cgroup`.
type CGroupSubsys struct {
	ID         int
	Subsystems []string
	Name       string
}

func NewCGroupSubsysFromLine(line string) (*CGroupSubsys, error) {
	fields := strings.SplitN(line, ":", 3)
	if len(fields) != 3 {
		return nil, cgroupSubsysFormatInvalidError{line}
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, err
	}

	return &CGroupSubsys{
		ID:         id,
		Subsystems: strings.Split(fields[1], ","),
		Name:       fields[2],
	}, nil
}

// parseCGroupSubsystems indexes the entries of procPathCGroup by controller
// name. The v2 entry has an empty controller list and is keyed by "".
func parseCGroupSubsystems(procPathCGroup string) (map[string]*CGroupSubsys, error) {
	f, err := os.Open(procPathCGroup)
	if err != nil {
		return nil, err
	}
	defer f.Close() // nolint: errcheck

	subsystems := make(map[string]*CGroupSubsys)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		cgroup, err := NewCGroupSubsysFromLine(scanner.Text())
		if err != nil {
			return nil, err
		}
		for _, subsys := range cgroup.Subsystems {
			subsystems[subsys] = cgroup
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return subsystems, nil
}
