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

const (
	_procPathCGroup    = "/proc/self/cgroup"
	_procPathMountInfo = "/proc/self/mountinfo"
)

func loadForCurrentProcess() (ICGroups, error) {
	return loadCGroups(_procPathMountInfo, _procPathCGroup)
}

func loadCGroups(mountInfoPath, procCGroupPath string) (ICGroups, error) {
	mps, err := parseMountInfo(mountInfoPath)
	if err != nil {
		return nil, err
	}
	subsystems, err := parseCGroupSubsystems(procCGroupPath)
	if err != nil {
		return nil, err
	}

	// hybrid hosts mount cgroup2 next to v1 controllers, the memory limit
	// lives in the v1 memory controller there
	if hasV1Memory(mps, subsystems) {
		return newCGroups(mps, subsystems)
	}

	for _, mp := range mps {
		switch mp.FSType {
		case _cgroupv2FSType:
			return newCGroups2(mp, subsystems)
		case _cgroupFSType:
			return newCGroups(mps, subsystems)
		}
	}
	return nil, ErrCGroupFSNotFound
}

func hasV1Memory(mps []*MountPoint, subsystems map[string]*CGroupSubsys) bool {
	if _, ok := subsystems[_cgroupSubsysMemory]; !ok {
		return false
	}
	for _, mp := range mps {
		if mp.FSType != _cgroupFSType {
			continue
		}
		for _, opt := range mp.SuperOptions {
			if opt == _cgroupSubsysMemory {
				return true
			}
		}
	}
	return false
}
