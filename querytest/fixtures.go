package querytest

import (
	"github.com/chaisql/sqlfixture/frame"
)

// Books returns the books table fixture.
func Books() *frame.Frame {
	return frame.MustNew(
		frame.Bigint("id", 1, 2, 3),
		frame.Text("title", "The Great Gatsby", "1984", "To Kill a Mockingbird"),
		frame.Bigint("author_id", 1, 2, 3),
		frame.Bigint("year", 1925, 1949, 1960),
	)
}

// Authors returns the authors table fixture.
func Authors() *frame.Frame {
	return frame.MustNew(
		frame.Bigint("author_id", 1, 2, 3),
		frame.Text("name", "F. Scott Fitzgerald", "George Orwell", "Harper Lee"),
	)
}

// BooksWithAuthors returns the title of every book next to the name of its author.
func BooksWithAuthors() *frame.Frame {
	m, err := frame.Merge(Books(), Authors(), "author_id")
	if err != nil {
		panic(err)
	}

	f, err := m.Select("title", "name")
	if err != nil {
		panic(err)
	}
	return f
}

// Library returns the books and authors tables, by name.
func Library() map[string]*frame.Frame {
	return map[string]*frame.Frame{
		"books":   Books(),
		"authors": Authors(),
	}
}
