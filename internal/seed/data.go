package seed

import "github.com/iliyamo/cinemax-booking/internal/model"

// DemoPassword is the password of both demo accounts.
const DemoPassword = "123456"

type demoUser struct {
	id, name, email string
	role            model.Role
}

var users = []demoUser{
	{"1", "Cliente Demo", "user@demo.com", model.RoleUser},
	{"2", "Admin Demo", "admin@demo.com", model.RoleAdmin},
}

var movies = []model.Movie{
	{
		ID:          "1",
		Title:       "O Agente Sombrio",
		Synopsis:    "Um ex-agente da CIA é forçado a sair da clandestinidade quando descobertas do seu passado o colocam na mira de assassinos implacáveis.",
		PosterURL:   "/assets/movie-poster-1.jpg",
		TrailerURL:  "https://www.youtube.com/embed/BmllggGO4pM",
		Genre:       "Ação",
		Duration:    125,
		AgeRating:   14,
		ReleaseDate: "2024-01-15",
		IsActive:    true,
	},
	{
		ID:          "2",
		Title:       "Amores de Inverno",
		Synopsis:    "Uma história tocante sobre segundas chances e o poder transformador do amor verdadeiro em meio às dificuldades da vida.",
		PosterURL:   "/assets/movie-poster-2.jpg",
		TrailerURL:  "https://www.youtube.com/embed/example2",
		Genre:       "Romance",
		Duration:    108,
		AgeRating:   12,
		ReleaseDate: "2024-02-10",
		IsActive:    true,
	},
	{
		ID:          "3",
		Title:       "Galáxia 9",
		Synopsis:    "A épica jornada de uma tripulação espacial que descobre uma civilização alienígena avançada nas profundezas do cosmos.",
		PosterURL:   "/assets/movie-poster-3.jpg",
		TrailerURL:  "https://www.youtube.com/embed/example3",
		Genre:       "Ficção Científica",
		Duration:    140,
		AgeRating:   10,
		ReleaseDate: "2024-03-05",
		IsActive:    true,
	},
	{
		ID:          "4",
		Title:       "Risadas Garantidas",
		Synopsis:    "Uma comédia hilariante sobre um grupo de amigos que se reencontram após 20 anos para uma aventura inesquecível.",
		PosterURL:   "https://images.unsplash.com/photo-1489599904472-26651c7d4f17?w=400&h=600&fit=crop&q=80",
		TrailerURL:  "https://www.youtube.com/embed/example4",
		Genre:       "Comédia",
		Duration:    95,
		AgeRating:   12,
		ReleaseDate: "2024-01-20",
		IsActive:    true,
	},
	{
		ID:          "5",
		Title:       "Noite de Terror",
		Synopsis:    "Um thriller psicológico que mantém o público na beira do assento com reviravoltas inesperadas e sustos de arrepiar.",
		PosterURL:   "https://images.unsplash.com/photo-1578662996442-48f60103fc96?w=400&h=600&fit=crop&q=80",
		TrailerURL:  "https://www.youtube.com/embed/example5",
		Genre:       "Terror",
		Duration:    110,
		AgeRating:   16,
		ReleaseDate: "2024-02-28",
		IsActive:    true,
	},
	{
		ID:          "6",
		Title:       "Pequenos Heróis",
		Synopsis:    "Uma animação encantadora sobre um grupo de crianças que descobrem poderes especiais e precisam salvar sua cidade.",
		PosterURL:   "https://images.unsplash.com/photo-1594736797933-d0ac8cb2837e?w=400&h=600&fit=crop&q=80",
		TrailerURL:  "https://www.youtube.com/embed/example6",
		Genre:       "Animação",
		Duration:    85,
		AgeRating:   0,
		ReleaseDate: "2024-03-15",
		IsActive:    true,
	},
}

var cinemas = []model.Cinema{
	{ID: "1", Name: "CineMax Shopping Ibirapuera", City: "São Paulo", Address: "Av. Ibirapuera, 3103 - Ibirapuera", IsActive: true},
	{ID: "2", Name: "CineMax Shopping Eldorado", City: "São Paulo", Address: "Av. Rebouças, 3970 - Pinheiros", IsActive: true},
	{ID: "3", Name: "CineMax Morumbi", City: "São Paulo", Address: "Av. das Nações Unidas, 14401 - Vila Gertrudes", IsActive: true},
	{ID: "4", Name: "CineMax Barra Shopping", City: "Rio de Janeiro", Address: "Av. das Américas, 4666 - Barra da Tijuca", IsActive: true},
	{ID: "5", Name: "CineMax Copacabana", City: "Rio de Janeiro", Address: "Av. Nossa Senhora de Copacabana, 581 - Copacabana", IsActive: true},
	{ID: "6", Name: "CineMax Iguatemi Fortaleza", City: "Fortaleza", Address: "Av. Washington Soares, 85 - Edson Queiroz", IsActive: true},
	{ID: "7", Name: "CineMax RioMar Fortaleza", City: "Fortaleza", Address: "Rua Desembargador Lauro Nogueira, 1500 - Papicu", IsActive: true},
}

func room(id, cinemaID, name string, typ model.RoomType, rows, cols int, accessible ...string) model.Room {
	return model.Room{
		ID:              id,
		CinemaID:        cinemaID,
		Name:            name,
		Type:            typ,
		Rows:            rows,
		Columns:         cols,
		TotalSeats:      rows * cols,
		AccessibleSeats: accessible,
	}
}

var rooms = []model.Room{
	room("1", "1", "Sala 1", model.Room2D, 10, 12, "A1", "A2"),
	room("2", "1", "Sala 2", model.Room3D, 10, 12, "A1", "A2"),
	room("3", "1", "Sala IMAX", model.RoomIMAX, 12, 14, "A1", "A2", "A3"),
	room("4", "2", "Sala 1", model.Room2D, 10, 12, "A1", "A2"),
	room("5", "2", "Sala 2", model.Room3D, 10, 12, "A1", "A2"),
	room("6", "2", "Sala VIP", model.RoomVIP, 8, 10, "A1", "A2"),
	room("7", "3", "Sala 1", model.Room2D, 10, 12, "A1", "A2"),
	room("8", "3", "Sala 2", model.Room3D, 10, 12, "A1", "A2"),
	room("9", "4", "Sala 1", model.Room2D, 10, 12, "A1", "A2"),
	room("10", "4", "Sala IMAX", model.RoomIMAX, 12, 14, "A1", "A2", "A3"),
	room("11", "5", "Sala 1", model.Room2D, 10, 12, "A1", "A2"),
	room("12", "5", "Sala 2", model.Room3D, 10, 12, "A1", "A2"),
	room("13", "6", "Sala 1", model.Room2D, 10, 12, "A1", "A2"),
	room("14", "6", "Sala 2", model.Room3D, 10, 12, "A1", "A2"),
	room("15", "7", "Sala 1", model.Room2D, 10, 12, "A1", "A2"),
	room("16", "7", "Sala VIP", model.RoomVIP, 8, 10, "A1", "A2"),
}

// showtimes are the daily screening slots.
var showtimes = []string{"14:20", "17:00", "20:10", "22:30"}
