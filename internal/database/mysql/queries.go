package mysql

// queryCatalog lists the columns of every table in the current database.
// KEY_COLUMN_USAGE carries the referenced table directly in MySQL.
const queryCatalog = `
	SELECT
		c.TABLE_NAME,
		c.COLUMN_NAME,
		c.DATA_TYPE,
		c.IS_NULLABLE,
		fk.REFERENCED_TABLE_NAME,
		fk.REFERENCED_COLUMN_NAME
	FROM information_schema.TABLES t
	JOIN information_schema.COLUMNS c
		ON c.TABLE_SCHEMA = t.TABLE_SCHEMA
		AND c.TABLE_NAME = t.TABLE_NAME
	LEFT JOIN (
		SELECT
			kcu.TABLE_SCHEMA,
			kcu.TABLE_NAME,
			kcu.COLUMN_NAME,
			kcu.REFERENCED_TABLE_NAME,
			kcu.REFERENCED_COLUMN_NAME
		FROM information_schema.TABLE_CONSTRAINTS tc
		JOIN information_schema.KEY_COLUMN_USAGE kcu
			ON tc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME
			AND tc.TABLE_SCHEMA = kcu.TABLE_SCHEMA
			AND tc.TABLE_NAME = kcu.TABLE_NAME
		WHERE tc.CONSTRAINT_TYPE = 'FOREIGN KEY'
	) fk
		ON fk.TABLE_SCHEMA = c.TABLE_SCHEMA
		AND fk.TABLE_NAME = c.TABLE_NAME
		AND fk.COLUMN_NAME = c.COLUMN_NAME
	WHERE t.TABLE_SCHEMA = DATABASE()
	ORDER BY c.TABLE_NAME, c.ORDINAL_POSITION`
