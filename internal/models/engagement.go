// Package models содержит доменные сущности engagement-сервиса.
package models

import (
	"strconv"
	"strings"
	"time"
)

// Post — документ вовлечённости, один на slug поста (коллекция posts).
// Создаётся лениво (upsert) при первом просмотре, лайке или комментарии
// и никогда не удаляется.
type Post struct {
	Slug     string    `bson:"slug"     json:"slug"`
	Views    int64     `bson:"views"    json:"views"`
	Likes    int64     `bson:"likes"    json:"likes"`
	Comments []Comment `bson:"comments" json:"comments"`
}

// Comment — узел дерева комментариев.
// Важно:
//   - ID — UUID, уникален в пределах дерева поста, неизменяем;
//   - Date — время создания на сервере (UTC);
//   - Replies — только дописывается в конец, порядок = порядок поступления.
type Comment struct {
	ID      string    `bson:"id"      json:"id"`
	Name    string    `bson:"name"    json:"name"`
	Text    string    `bson:"text"    json:"text"`
	Date    Timestamp `bson:"date"    json:"date"`
	Replies []Comment `bson:"replies" json:"replies"`
}

// ViewToken — эфемерный токен дедупликации просмотров (коллекция views).
// Удаляется хранилищем по TTL-индексу после ExpireAt.
type ViewToken struct {
	Slug     string    `bson:"slug"`
	Viewer   string    `bson:"viewer"`
	ExpireAt time.Time `bson:"expireAt"`
}

// FindPath ищет комментарий id в глубину и возвращает путь из индексов
// от корневого массива до найденного узла.
func FindPath(comments []Comment, id string) ([]int, bool) {
	for i := range comments {
		if comments[i].ID == id {
			return []int{i}, true
		}

		if sub, ok := FindPath(comments[i].Replies, id); ok {
			return append([]int{i}, sub...), true
		}
	}

	return nil, false
}

// RepliesPath строит dotted-путь к массиву replies узла по индексному пути:
// [0 2] -> "comments.0.replies.2.replies".
func RepliesPath(path []int) string {
	return NodePath(path) + ".replies"
}

// NodePath строит dotted-путь к самому узлу: [0 2] -> "comments.0.replies.2".
func NodePath(path []int) string {
	var b strings.Builder
	b.WriteString("comments")

	for i, idx := range path {
		if i > 0 {
			b.WriteString(".replies")
		}
		b.WriteByte('.')
		b.WriteString(strconv.Itoa(idx))
	}

	return b.String()
}

// Normalize заменяет nil-срезы replies на пустые по всему дереву,
// чтобы наружу всегда отдавался [] вместо null.
func Normalize(comments []Comment) []Comment {
	if comments == nil {
		return []Comment{}
	}

	for i := range comments {
		comments[i].Replies = Normalize(comments[i].Replies)
		comments[i].Date.Time = comments[i].Date.UTC()
	}

	return comments
}
