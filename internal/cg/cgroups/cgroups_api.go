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

// Package cgroups reads the memory limit applied to the current process by
// a v1 or v2 cgroup hierarchy.
package cgroups

import "errors"

var (
	// ErrCGroupFSNotFound indicates that the system is not using cgroups.
	ErrCGroupFSNotFound = errors.New("cgroupfs not found")
	// ErrNotV2 indicates that the system is not using cgroups2.
	ErrNotV2 = errors.New("not using cgroups2")
)

// unlimitedThreshold is where v1 limits stop being meaningful. An unset
// memory.limit_in_bytes reads as PAGE_COUNTER_MAX rounded to the page size.
const unlimitedThreshold = 1 << 62

type ICGroups interface {
	// MemLimit returns the memory limit in bytes. The bool is false when no
	// limit is set, the value is 0 in that case.
	MemLimit() (uint64, bool, error)
	// Version returns CGroup version.
	Version() string
}

// LoadCGroupsForCurrentProcess finds the cgroup hierarchy of this process.
func LoadCGroupsForCurrentProcess() (ICGroups, error) {
	return loadForCurrentProcess()
}
