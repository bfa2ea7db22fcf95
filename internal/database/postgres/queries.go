package postgres

// queryCatalog lists every column of the tables in a schema together with
// the foreign key it references, if any.
const queryCatalog = `
	WITH fk_info AS (
		SELECT
			tc.table_schema,
			tc.table_name,
			kcu.column_name,
			ccu.table_name AS foreign_table_name,
			ccu.column_name AS foreign_column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage ccu
			ON ccu.constraint_name = tc.constraint_name
			AND ccu.constraint_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
	)
	SELECT
		t.table_name,
		c.column_name,
		c.data_type,
		c.is_nullable,
		fk.foreign_table_name,
		fk.foreign_column_name
	FROM information_schema.tables t
	JOIN information_schema.columns c
		ON c.table_schema = t.table_schema
		AND c.table_name = t.table_name
	LEFT JOIN fk_info fk
		ON fk.table_schema = t.table_schema
		AND fk.table_name = t.table_name
		AND fk.column_name = c.column_name
	WHERE t.table_schema = $1
	ORDER BY t.table_name, c.ordinal_position`
