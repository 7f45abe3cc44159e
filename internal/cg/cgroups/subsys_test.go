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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCGroupSubsysFromLine(t *testing.T) {
	testTable := []struct {
		line           string
		expectedSubsys *CGroupSubsys
	}{
		{
			line:           "1:cpu:/",
			expectedSubsys: &CGroupSubsys{ID: 1, Subsystems: []string{"cpu"}, Name: "/"},
		},
		{
			line:           "4:memory,hugetlb:/docker/abc",
			expectedSubsys: &CGroupSubsys{ID: 4, Subsystems: []string{"memory", "hugetlb"}, Name: "/docker/abc"},
		},
		{
			line:           "0::/user.slice:with-colon",
			expectedSubsys: &CGroupSubsys{ID: 0, Subsystems: []string{""}, Name: "/user.slice:with-colon"},
		},
	}

	for _, tt := range testTable {
		subsys, err := NewCGroupSubsysFromLine(tt.line)
		assert.NoError(t, err, tt.line)
		assert.Equal(t, tt.expectedSubsys, subsys, tt.line)
	}
}

func TestNewCGroupSubsysFromLineErr(t *testing.T) {
	for _, line := range []string{"1:cpu", "not-a-number:cpu:/", ""} {
		_, err := NewCGroupSubsysFromLine(line)
		assert.Error(t, err, "%q", line)
	}
}
