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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCGroupsMemLimit(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, filepath.Join("set", _cgroupMemLimitParam), "536870912\n")
	writeFixture(t, dir, filepath.Join("unlimited", _cgroupMemLimitParam), "9223372036854771712\n")
	writeFixture(t, dir, filepath.Join("invalid", _cgroupMemLimitParam), "-\n")

	testTable := []struct {
		name            string
		expectedLimit   uint64
		expectedDefined bool
		shouldHaveError bool
	}{
		{name: "set", expectedLimit: 512 << 20, expectedDefined: true},
		{name: "unlimited"},
		{name: "absent"},
		{name: "invalid", shouldHaveError: true},
	}

	cgroups := make(CGroups)
	limit, defined, err := cgroups.MemLimit()
	assert.Equal(t, uint64(0), limit, "no memory controller")
	assert.False(t, defined, "no memory controller")
	assert.NoError(t, err, "no memory controller")

	for _, tt := range testTable {
		cgroups[_cgroupSubsysMemory] = NewCGroup(filepath.Join(dir, tt.name))

		limit, defined, err := cgroups.MemLimit()
		assert.Equal(t, tt.expectedLimit, limit, tt.name)
		assert.Equal(t, tt.expectedDefined, defined, tt.name)
		if tt.shouldHaveError {
			assert.Error(t, err, tt.name)
		} else {
			assert.NoError(t, err, tt.name)
		}
	}
	assert.Equal(t, "cgroup", cgroups.Version())
}

func TestCGroups2MemLimit(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, filepath.Join("set", _cgroupv2MEMMax), "268435456\n")
	writeFixture(t, dir, filepath.Join("max", _cgroupv2MEMMax), "max\n")
	writeFixture(t, dir, filepath.Join("invalid", _cgroupv2MEMMax), "asdf\n")
	writeFixture(t, dir, filepath.Join("empty", _cgroupv2MEMMax), "")

	tests := []struct {
		name    string
		want    uint64
		wantOK  bool
		wantErr string
	}{
		{name: "set", want: 256 << 20, wantOK: true},
		{name: "max"},
		{name: "nonexistent"},
		{name: "invalid", wantErr: `parsing "asdf": invalid syntax`},
		{name: "empty", wantErr: "unexpected EOF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cg := &CGroups2{group: NewCGroup(filepath.Join(dir, tt.name))}
			limit, ok, err := cg.MemLimit()
			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, limit)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}
