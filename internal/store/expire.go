package store

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.etcd.io/bbolt"

	"github.com/lornews/lord/internal/models"
)

// ExpirePolicy controls Expire's age threshold. Days<0 means expiry is
// disabled (callers should not invoke Expire at all); Days==0 expires
// every live article unconditionally; Days>0 expires articles injected
// more than Days days ago.
type ExpirePolicy struct {
	Days int
}

func (p ExpirePolicy) expired(ts, now time.Time) bool {
	if p.Days == 0 {
		return true
	}
	return ts.Before(now.Add(-time.Duration(p.Days) * 24 * time.Hour))
}

// Expire walks group's live numbers from min upward, deleting every
// article older than policy's threshold, stopping at the first
// survivor. It returns the count of articles deleted. File-removal
// failures are logged as warnings, not returned as errors.
func (s *Store) Expire(group string, policy ExpirePolicy) (int64, error) {
	gi, err := s.OpenGroupIndex(group, ReadWriteCreate)
	if err != nil {
		return 0, err
	}
	defer gi.Close()

	restore := maskInterrupt()
	defer restore()

	now := time.Now()
	var deleted int64

	err = gi.h.db.Update(func(tx *bbolt.Tx) error {
		meta := tx.Bucket(bucketMeta)
		numbers := tx.Bucket(bucketNumbers)
		stamps := tx.Bucket(bucketStamps)
		overview := tx.Bucket(bucketOverview)
		topics := tx.Bucket(bucketTopics)

		min := int64(getUint64(meta, keyMin))
		max := int64(getUint64(meta, keyMax))
		count := int64(getUint64(meta, keyCount))

		newMin := max + 1 // assume everything expires unless we find a survivor

		for n := min; n <= max; n++ {
			rawStamp := stamps.Get(numberKey(n))
			if rawStamp == nil {
				continue // hole, nothing live at this number
			}
			ts := time.Unix(getInt64FromBytes(rawStamp), 0).UTC()
			if !policy.expired(ts, now) {
				newMin = n
				break
			}

			v := numbers.Get(numberKey(n))
			if v != nil {
				topic, _, ok := models.ParseStorePath(string(v))
				if ok {
					removeArticleAndTopicDir(s, group, topic, n, topics)
				}
			}

			if err := numbers.Delete(numberKey(n)); err != nil {
				return err
			}
			if err := stamps.Delete(numberKey(n)); err != nil {
				return err
			}
			if err := overview.Delete(numberKey(n)); err != nil {
				return err
			}
			count--
			deleted++
		}

		if err := putUint64(meta, keyMin, uint64(newMin)); err != nil {
			return err
		}
		return putUint64(meta, keyCount, uint64(count))
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func removeArticleAndTopicDir(s *Store, group string, topic, num int64, topics *bbolt.Bucket) {
	path := s.ArticlePath(group, topic, num)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		warnf("failed to remove article file %s: %v", path, err)
	}

	topicKey := []byte(topicKeyString(topic))
	tc := int64(getUint64(topics, topicKey)) - 1
	if tc <= 0 {
		_ = topics.Delete(topicKey)
		topicDir := filepath.Join(s.cfg.GroupDir(group), strconv.FormatInt(topic, 10))
		if err := os.Remove(topicDir); err != nil && !os.IsNotExist(err) {
			warnf("failed to remove empty topic dir %s: %v", topicDir, err)
		}
		return
	}
	if err := putUint64(topics, topicKey, uint64(tc)); err != nil {
		warnf("failed to update topic counter for topic %d: %v", topic, err)
	}
}
