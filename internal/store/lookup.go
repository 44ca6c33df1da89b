package store

import (
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/lornews/lord/internal/models"
)

// LookupByNumber returns the "{topic}/{comment}" store path for article
// number n, or ok=false if n is not a live article.
func (gi *GroupIndex) LookupByNumber(n int64) (topic, comment int64, ok bool, err error) {
	err = gi.h.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketNumbers).Get(numberKey(n))
		if v == nil {
			return nil
		}
		t, c, parsed := models.ParseStorePath(string(v))
		if !parsed {
			return fmt.Errorf("corrupt numbers entry for article %d: %q", n, v)
		}
		topic, comment, ok = t, c, true
		return nil
	})
	return
}

// LookupOverview returns the decoded overview record for article number n.
func (gi *GroupIndex) LookupOverview(n int64) (*models.Overview, bool, error) {
	var ov *models.Overview
	err := gi.h.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketOverview).Get(numberKey(n))
		if v == nil {
			return nil
		}
		parsed, err := UnmarshalOverview(n, string(v))
		if err != nil {
			return fmt.Errorf("corrupt overview for article %d: %w", n, err)
		}
		ov = parsed
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return ov, ov != nil, nil
}

// LookupTimestamp returns the injection timestamp of article number n.
func (gi *GroupIndex) LookupTimestamp(n int64) (time.Time, bool, error) {
	var ts time.Time
	var ok bool
	err := gi.h.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketStamps)
		v := b.Get(numberKey(n))
		if v == nil {
			return nil
		}
		ok = true
		ts = time.Unix(getInt64FromBytes(v), 0).UTC()
		return nil
	})
	return ts, ok, err
}

func getInt64FromBytes(v []byte) int64 {
	var u uint64
	for _, b := range v {
		u = u<<8 | uint64(b)
	}
	return int64(u)
}

// LookupTopicCount returns the number of live articles stored under topic.
func (gi *GroupIndex) LookupTopicCount(topic int64) (int64, error) {
	var n int64
	err := gi.h.db.View(func(tx *bbolt.Tx) error {
		n = int64(getUint64(tx.Bucket(bucketTopics), []byte(topicKeyString(topic))))
		return nil
	})
	return n, err
}

// TopicComments returns the comment IDs already stored under topic
// (key 0 is the topic-start article), letting the puller skip messages
// it has seen on an earlier pass.
func (gi *GroupIndex) TopicComments(topic int64) (map[int64]bool, error) {
	seen := make(map[int64]bool)
	err := gi.h.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketNumbers).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			t, comment, ok := models.ParseStorePath(string(v))
			if !ok || t != topic {
				continue
			}
			seen[comment] = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return seen, nil
}

// Scan returns the live article numbers in [lo, hi], inclusive.
func (gi *GroupIndex) Scan(lo, hi int64) ([]int64, error) {
	var nums []int64
	err := gi.h.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketNumbers)
		for n := lo; n <= hi; n++ {
			if b.Get(numberKey(n)) != nil {
				nums = append(nums, n)
			}
		}
		return nil
	})
	return nums, err
}

// LookupByMessageID parses id, then scans each catalog group's
// index for a "{topic}/{comment}" value matching the parsed components,
// returning the first hit. This is O(groups *
// numbers); acceptable for small installs.
func (s *Store) LookupByMessageID(groups []string, id string) (group string, number int64, path string, found bool, err error) {
	topic, comment, ok := models.ParseMessageID(id)
	if !ok {
		return "", 0, "", false, nil
	}
	want := models.StorePath(topic, comment)

	for _, g := range groups {
		gi, oerr := s.OpenGroupIndex(g, ReadOnly)
		if oerr != nil {
			continue
		}
		var hitNum int64
		var hit bool
		verr := gi.h.db.View(func(tx *bbolt.Tx) error {
			b := tx.Bucket(bucketNumbers)
			c := b.Cursor()
			for k, v := c.First(); k != nil; k, v = c.Next() {
				if string(v) == want {
					hitNum = int64(beToUint64(k))
					hit = true
					return nil
				}
			}
			return nil
		})
		gi.Close()
		if verr != nil {
			return "", 0, "", false, verr
		}
		if hit {
			return g, hitNum, want, true, nil
		}
	}
	return "", 0, "", false, nil
}
