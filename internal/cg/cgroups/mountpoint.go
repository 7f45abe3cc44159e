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
	"path/filepath"
	"strconv"
	"strings"
)

type mountPointFormatInvalidError struct {
	line string
}

func (err mountPointFormatInvalidError) Error() string {
	return fmt.Sprintf("invalid format for MountPoint: %q", err.line)
}

type pathNotExposedFromMountPointError struct {
	mountPoint string
	root       string
	path       string
}

func (err pathNotExposedFromMountPointError) Error() string {
	return fmt.Sprintf("path %q is not a descendant of mount point root %q and cannot be exposed from %q", err.path, err.root, err.mountPoint)
}

// the optional fields of a mountinfo line end with a lone "-"
const _mountInfoOptionalFieldsSep = "-"

// MountPoint is the subset of a `/proc/$PID/mountinfo` entry needed to
// locate cgroup controllers. See proc(5) for the full format.
type MountPoint struct {
	MountID      int
	ParentID     int
	Root         string
	MountPoint   string
	FSType       string
	MountSource  string
	SuperOptions []string
}

// NewMountPointFromLine parses one mountinfo line:
//
//	36 35 98:0 /mnt1 /mnt2 rw,noatime master:1 - ext3 /dev/root rw,errors=continue
func NewMountPointFromLine(line string) (*MountPoint, error) {
	fields := strings.Fields(line)

	sep := -1
	for i := 6; i < len(fields); i++ {
		if fields[i] == _mountInfoOptionalFieldsSep {
			sep = i
			break
		}
	}
	// six leading fields, the separator, then exactly three trailing ones
	if sep < 0 || len(fields) != sep+4 {
		return nil, mountPointFormatInvalidError{line}
	}

	mountID, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, err
	}
	parentID, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, err
	}

	return &MountPoint{
		MountID:      mountID,
		ParentID:     parentID,
		Root:         fields[3],
		MountPoint:   fields[4],
		FSType:       fields[sep+1],
		MountSource:  fields[sep+2],
		SuperOptions: strings.Split(fields[sep+3], ","),
	}, nil
}

// Translate converts an absolute path inside the mount's file system to the
// path where it is visible in this mount namespace.
func (mp *MountPoint) Translate(absPath string) (string, error) {
	relPath, err := filepath.Rel(mp.Root, absPath)
	if err != nil {
		return "", err
	}
	if relPath == ".." || strings.HasPrefix(relPath, "../") {
		return "", pathNotExposedFromMountPointError{
			mountPoint: mp.MountPoint,
			root:       mp.Root,
			path:       absPath,
		}
	}
	return filepath.Join(mp.MountPoint, relPath), nil
}

func parseMountInfo(procPathMountInfo string) ([]*MountPoint, error) {
	f, err := os.Open(procPathMountInfo)
	if err != nil {
		return nil, err
	}
	defer f.Close() // nolint: errcheck

	var mps []*MountPoint
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		mp, err := NewMountPointFromLine(scanner.Text())
		if err != nil {
			return nil, err
		}
		mps = append(mps, mp)
	}
	return mps, scanner.Err()
}
