/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements.  See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License.  You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package memhold

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyRing(t *testing.T) {
	var r = newRing(0)
	r.push(7)
	assert.Equal(t, uint64(0), r.avg())
	assert.Equal(t, 0, r.len())

	r = newRing(1)
	assert.Equal(t, uint64(0), r.avg())
}

func TestRing(t *testing.T) {
	var cases = []struct {
		samples []uint64
		maxLen  int
		avg     uint64
		len     int
	}{
		{
			samples: []uint64{1, 2, 3},
			maxLen:  10,
			avg:     2,
			len:     3,
		},
		{
			samples: []uint64{1, 2, 3},
			maxLen:  1,
			avg:     3,
			len:     1,
		},
		{
			// 1 and 2 are overwritten
			samples: []uint64{1, 2, 30, 40, 50},
			maxLen:  3,
			avg:     40,
			len:     3,
		},
	}

	for _, cas := range cases {
		var r = newRing(cas.maxLen)
		for _, elem := range cas.samples {
			r.push(elem)
		}
		assert.Equal(t, cas.avg, r.avg())
		assert.Equal(t, cas.len, r.len())
	}
}

func TestRingWrapsRepeatedly(t *testing.T) {
	const maxLen = 3
	var r = newRing(maxLen)
	for i := uint64(1); i <= 3*maxLen+2; i++ {
		r.push(i)

		// average of the last min(i, maxLen) samples
		first := uint64(1)
		if i > maxLen {
			first = i - maxLen + 1
		}
		assert.Equal(t, (first+i)/2, r.avg(), "after %d", i)
		assert.LessOrEqual(t, r.len(), maxLen)
	}

	// the oldest sample sits at idx
	assert.Equal(t, []uint64{10, 11, 9}, r.data)
	assert.Equal(t, 2, r.idx)
}
