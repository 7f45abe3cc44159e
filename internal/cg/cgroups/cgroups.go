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
	"os"
)

const (
	// _cgroupFSType is the Linux CGroup file system type used in
	// `/proc/$PID/mountinfo`.
	_cgroupFSType = "cgroup"
	// _cgroupSubsysMemory is the Memory CGroup subsystem.
	_cgroupSubsysMemory = "memory"
	// _cgroupMemLimitParam is the file name for the CGroup memory limit.
	_cgroupMemLimitParam = "memory.limit_in_bytes"
)

// CGroups is a map that associates each CGroup with its subsystem name.
type CGroups map[string]*CGroup

func newCGroups(mountInfo []*MountPoint, subsystems map[string]*CGroupSubsys) (CGroups, error) {
	cgroups := make(CGroups)
	for _, mp := range mountInfo {
		if mp.FSType != _cgroupFSType {
			continue
		}
		for _, opt := range mp.SuperOptions {
			subsys, ok := subsystems[opt]
			if !ok {
				continue
			}
			cgroupPath, err := mp.Translate(subsys.Name)
			if err != nil {
				return nil, err
			}
			cgroups[opt] = NewCGroup(cgroupPath)
		}
	}
	return cgroups, nil
}

// MemLimit reads memory.limit_in_bytes of the memory controller. A missing
// controller or file, or the kernel's "unlimited" value, yields (0, false, nil).
func (cg CGroups) MemLimit() (uint64, bool, error) {
	memCGroup, ok := cg[_cgroupSubsysMemory]
	if !ok {
		return 0, false, nil
	}
	limit, err := memCGroup.readUint(_cgroupMemLimitParam)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, err
	}
	if limit == 0 || limit >= unlimitedThreshold {
		return 0, false, nil
	}
	return limit, true, nil
}

func (cg CGroups) Version() string {
	return _cgroupFSType
}
