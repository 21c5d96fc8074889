package cli

import (
	"food-quiz-service/internal/domain"
)

// sampleCatalog is the menu used when neither an assets dir nor Postgres is configured.
func sampleCatalog() map[domain.Category][]domain.DishID {
	return map[domain.Category][]domain.DishID{
		"British": {
			"British-bangers_and_mash", "British-beef_wellington", "British-cornish_pasty",
			"British-eton_mess", "British-fish_and_chips", "British-full_breakfast",
			"British-scotch_egg", "British-shepherds_pie", "British-sticky_toffee_pudding",
			"British-toad_in_the_hole",
		},
		"Chinese": {
			"Chinese-char_siu", "Chinese-chow_mein", "Chinese-dim_sum",
			"Chinese-hot_and_sour_soup", "Chinese-kung_pao_chicken", "Chinese-mapo_tofu",
			"Chinese-peking_duck", "Chinese-spring_rolls", "Chinese-sweet_and_sour_pork",
			"Chinese-wonton_soup",
		},
		"Indian": {
			"Indian-biryani", "Indian-butter_chicken", "Indian-chana_masala",
			"Indian-dal_makhani", "Indian-dosa", "Indian-naan",
			"Indian-palak_paneer", "Indian-rogan_josh", "Indian-samosa",
			"Indian-tandoori_chicken",
		},
		"Italian": {
			"Italian-arancini", "Italian-bruschetta", "Italian-carbonara",
			"Italian-gnocchi", "Italian-lasagne", "Italian-minestrone",
			"Italian-osso_buco", "Italian-pizza_margherita", "Italian-risotto",
			"Italian-tiramisu",
		},
	}
}
