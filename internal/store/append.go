package store

import (
	"os"
	"os/signal"
	"strconv"
	"time"

	"go.etcd.io/bbolt"

	"github.com/lornews/lord/internal/models"
)

// maskInterrupt ignores SIGINT for the duration of a locked write
// transaction, so it cannot be torn between article-file write and
// index update. The returned func restores normal delivery.
func maskInterrupt() func() {
	signal.Ignore(os.Interrupt)
	return func() { signal.Reset(os.Interrupt) }
}

// AppendArticle writes art's article file and updates the group's index in
// one locked section. It assigns and returns the new article
// number. topic/comment identify the Forum thread/comment this article
// represents; comment is 0 for a topic-start article.
func (s *Store) AppendArticle(group string, topic, comment int64, art *models.Article) (int64, error) {
	gi, err := s.OpenGroupIndex(group, ReadWriteCreate)
	if err != nil {
		return 0, err
	}
	defer gi.Close()

	restore := maskInterrupt()
	defer restore()

	if art.Injected.IsZero() {
		art.Injected = time.Now().UTC()
	}
	text := RenderArticle(art)

	var num int64
	err = gi.h.db.Update(func(tx *bbolt.Tx) error {
		meta := tx.Bucket(bucketMeta)
		numbers := tx.Bucket(bucketNumbers)
		stamps := tx.Bucket(bucketStamps)
		overview := tx.Bucket(bucketOverview)
		topics := tx.Bucket(bucketTopics)

		max := int64(getUint64(meta, keyMax))
		min := int64(getUint64(meta, keyMin))
		count := int64(getUint64(meta, keyCount))

		num = max + 1

		if err := writeArticleFile(s.ArticlePath(group, topic, num), text); err != nil {
			return err
		}

		if err := numbers.Put(numberKey(num), []byte(models.StorePath(topic, comment))); err != nil {
			return err
		}
		if err := putInt64(stamps, numberKey(num), art.Injected.Unix()); err != nil {
			return err
		}
		ov := BuildOverview(art, num, int64(len(text)))
		if err := overview.Put(numberKey(num), []byte(MarshalOverview(ov))); err != nil {
			return err
		}

		topicKey := []byte(topicKeyString(topic))
		tc := int64(getUint64(topics, topicKey)) + 1
		if err := putUint64(topics, topicKey, uint64(tc)); err != nil {
			return err
		}

		if count == 0 {
			min = num
		}
		count++
		max = num

		if err := putUint64(meta, keyMax, uint64(max)); err != nil {
			return err
		}
		if err := putUint64(meta, keyMin, uint64(min)); err != nil {
			return err
		}
		return putUint64(meta, keyCount, uint64(count))
	})
	if err != nil {
		return 0, err
	}
	return num, nil
}

func topicKeyString(topic int64) string {
	return strconv.FormatInt(topic, 10) + "/"
}

func putInt64(b *bbolt.Bucket, key []byte, v int64) error {
	return putUint64(b, key, uint64(v))
}
